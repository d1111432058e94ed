package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/catalog"
)

func (h *Handler) registerCatalogRoutes(g *gin.RouterGroup) {
	g.GET("/categories", h.listCategories)
	g.GET("/packages", h.listPackages)
	g.GET("/packages/:key", h.getPackage)
}

func (h *Handler) registerAdminCatalogRoutes(g *gin.RouterGroup) {
	g.POST("/categories", h.createCategory)
	g.PUT("/categories/:id", h.updateCategory)
	g.DELETE("/categories/:id", h.deleteCategory)

	g.GET("/packages", h.adminListPackages)
	g.POST("/packages", h.createPackage)
	g.PUT("/packages/:id", h.updatePackage)
	g.DELETE("/packages/:id", h.deletePackage)
}

func (h *Handler) listCategories(c *gin.Context) {
	list, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if list == nil {
		list = []catalog.Category{}
	}
	c.JSON(http.StatusOK, list)
}

// packagesFilter maps query parameters onto the catalog filter.
func packagesFilter(c *gin.Context) (catalog.Filter, error) {
	f := catalog.Filter{
		CategoryID: c.Query("category_id"),
		Difficulty: catalog.Difficulty(c.Query("difficulty")),
		Search:     c.Query("search"),
		OrderBy:    c.Query("order_by"),
		Desc:       c.Query("desc") == "true",
	}
	if f.Difficulty != "" && !f.Difficulty.Valid() {
		return f, errors.New("unknown difficulty")
	}
	for q, dst := range map[string]**bool{
		"popular":  &f.IsPopular,
		"featured": &f.IsFeatured,
	} {
		if v := c.Query(q); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return f, errors.Wrapf(err, "parse %s", q)
			}
			*dst = &b
		}
	}
	return f, nil
}

// listPackages serves the public catalog. Only active packages are visible
// here; the admin listing lifts that.
func (h *Handler) listPackages(c *gin.Context) {
	f, err := packagesFilter(c)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	active := true
	f.IsActive = &active
	h.renderPackages(c, f)
}

// adminListPackages honors all=true to include inactive packages.
func (h *Handler) adminListPackages(c *gin.Context) {
	f, err := packagesFilter(c)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	if c.Query("all") != "true" {
		active := true
		f.IsActive = &active
	}
	h.renderPackages(c, f)
}

func (h *Handler) renderPackages(c *gin.Context, f catalog.Filter) {
	list, err := h.catalog.ListPackages(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	if list == nil {
		list = []catalog.Package{}
	}
	c.JSON(http.StatusOK, list)
}

// getPackage resolves the path key as an ID when it parses as a UUID and as a
// slug otherwise.
func (h *Handler) getPackage(c *gin.Context) {
	key := c.Param("key")

	var (
		pkg *catalog.Package
		err error
	)
	if _, uuidErr := uuid.Parse(key); uuidErr == nil {
		pkg, err = h.catalog.GetPackage(c.Request.Context(), key)
	} else {
		pkg, err = h.catalog.GetPackageBySlug(c.Request.Context(), key)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *Handler) createCategory(c *gin.Context) {
	var cat catalog.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		h.badRequest(c, err)
		return
	}
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	cat.CreatedAt = time.Now().UTC()
	cat.UpdatedAt = cat.CreatedAt
	if err := h.catalog.CreateCategory(c.Request.Context(), &cat); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) updateCategory(c *gin.Context) {
	var cat catalog.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		h.badRequest(c, err)
		return
	}
	cat.ID = c.Param("id")
	if err := h.catalog.UpdateCategory(c.Request.Context(), &cat); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createPackage(c *gin.Context) {
	var pkg catalog.Package
	if err := c.ShouldBindJSON(&pkg); err != nil {
		h.badRequest(c, err)
		return
	}
	if pkg.Difficulty != "" && !pkg.Difficulty.Valid() {
		h.badRequest(c, errors.New("unknown difficulty"))
		return
	}
	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}
	pkg.CreatedAt = time.Now().UTC()
	pkg.UpdatedAt = pkg.CreatedAt
	assignNestedIDs(&pkg)
	if err := h.catalog.CreatePackage(c.Request.Context(), &pkg); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

func (h *Handler) updatePackage(c *gin.Context) {
	var pkg catalog.Package
	if err := c.ShouldBindJSON(&pkg); err != nil {
		h.badRequest(c, err)
		return
	}
	if pkg.Difficulty != "" && !pkg.Difficulty.Valid() {
		h.badRequest(c, errors.New("unknown difficulty"))
		return
	}
	pkg.ID = c.Param("id")
	assignNestedIDs(&pkg)
	if err := h.catalog.UpdatePackage(c.Request.Context(), &pkg); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *Handler) deletePackage(c *gin.Context) {
	if err := h.catalog.DeletePackage(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// assignNestedIDs gives fresh IDs to nested rows that arrive without one;
// updates replace the nested sets wholesale, so incoming rows are new rows.
func assignNestedIDs(p *catalog.Package) {
	for i := range p.Photos {
		if p.Photos[i].ID == "" {
			p.Photos[i].ID = uuid.NewString()
		}
		p.Photos[i].PackageID = p.ID
	}
	for i := range p.Includes {
		if p.Includes[i].ID == "" {
			p.Includes[i].ID = uuid.NewString()
		}
		p.Includes[i].PackageID = p.ID
	}
	for i := range p.Itinerary {
		if p.Itinerary[i].ID == "" {
			p.Itinerary[i].ID = uuid.NewString()
		}
		p.Itinerary[i].PackageID = p.ID
	}
}
