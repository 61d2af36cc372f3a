package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/aouyang1/portfolio/api/models"
	"github.com/aouyang1/portfolio/api/web/templates"
	"github.com/aouyang1/portfolio/store"
)

const featuredProjectLimit = 3

func (ws *WebServer) page(c *gin.Context, title string) templates.Page {
	return templates.Page{
		Title: title,
		Path:  c.Request.URL.Path,
		Site:  ws.cfg.Site,
	}
}

// renderCachedPage serves a viewer independent page from the page cache,
// rendering and storing it on a miss.
func (ws *WebServer) renderCachedPage(c *gin.Context, status int, p templates.Page, body templ.Component) {
	ctx := c.Request.Context()
	key := c.Request.URL.RequestURI()

	if html, ok := ws.cache.Get(ctx, key); ok {
		c.Data(status, "text/html; charset=utf-8", html)
		return
	}

	html, err := templates.ToString(ctx, templates.Layout(p, body))
	if err != nil {
		slog.Error("failed to render page", "path", p.Path, "error", err)
		c.String(http.StatusInternalServerError, "Failed to render page")
		return
	}
	if status == http.StatusOK {
		ws.cache.Set(ctx, key, []byte(html))
	}
	c.Data(status, "text/html; charset=utf-8", []byte(html))
}

// handleHome creates a fresh slider for this page view, so it is never cached.
func (ws *WebServer) handleHome(c *gin.Context) {
	id, slider, err := ws.registry.Create()
	if err != nil {
		c.String(http.StatusServiceUnavailable, "Error: "+err.Error())
		return
	}

	skills, err := ws.db.GetSkillCategories()
	if err != nil {
		slog.Warn("unable to load skill categories", "error", err)
	}
	featured, _, err := ws.db.GetProjects(store.ProjectFilter{FeaturedOnly: true, Limit: featuredProjectLimit})
	if err != nil {
		slog.Warn("unable to load featured projects", "error", err)
	}

	data := templates.HomeData{
		SliderID: id,
		Slider:   slider.View(),
		Skills:   skills,
		Featured: featured,
	}
	renderComponent(c, http.StatusOK, templates.Layout(ws.page(c, ""), templates.Home(ws.cfg.Site, data)))
}

func (ws *WebServer) handleProjects(c *gin.Context) {
	filter, query := projectFilterFromQuery(c)

	projects, total, err := ws.db.GetProjects(filter)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error fetching projects: "+err.Error())
		return
	}
	technologies, err := ws.db.GetTechnologies()
	if err != nil {
		slog.Warn("unable to load technologies", "error", err)
	}

	data := templates.ProjectsData{
		Projects:     projects,
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		Query:        query,
		Search:       filter.Search,
		Category:     filter.Category,
		Technology:   c.Query("tech"),
		Technologies: technologies,
	}
	ws.renderCachedPage(c, http.StatusOK, ws.page(c, "Projects"), templates.Projects(data))
}

// projectFilterFromQuery reads the project list query parameters. Invalid
// page or limit values fall back to their defaults. The returned values hold
// the active filters without the page so pagination links can extend them.
func projectFilterFromQuery(c *gin.Context) (store.ProjectFilter, url.Values) {
	f := store.ProjectFilter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Page:     1,
		Limit:    store.DefaultProjectLimit,
	}
	if tech := c.Query("tech"); tech != "" {
		f.Technologies = []string{tech}
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		f.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		f.Limit = min(limit, store.MaxProjectLimit)
	}
	f.FeaturedOnly = c.Query("featured") == "true"

	query := url.Values{}
	for _, key := range []string{"q", "category", "status", "tech", "limit"} {
		if v := c.Query(key); v != "" {
			query.Set(key, v)
		}
	}
	return f, query
}

func (ws *WebServer) handleListProjects(c *gin.Context) {
	filter, _ := projectFilterFromQuery(c)

	projects, total, err := ws.db.GetProjects(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get projects: " + err.Error()})
		return
	}
	if projects == nil {
		projects = []store.Project{}
	}

	c.JSON(http.StatusOK, models.ProjectListResponse{
		Projects: projects,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
}

func (ws *WebServer) handleProjectDetail(c *gin.Context) {
	project, err := ws.db.GetProject(c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) || (err == nil && project.Status != store.StatusPublished) {
		ws.handleNotFound(c)
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "Error fetching project: "+err.Error())
		return
	}
	ws.renderCachedPage(c, http.StatusOK, ws.page(c, project.Title), templates.ProjectDetail(*project))
}

func (ws *WebServer) handleAbout(c *gin.Context) {
	skills, err := ws.db.GetSkillCategories()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error fetching skills: "+err.Error())
		return
	}
	ws.renderCachedPage(c, http.StatusOK, ws.page(c, "About"), templates.About(ws.cfg.Site, skills))
}

func (ws *WebServer) handleContact(c *gin.Context) {
	ws.renderCachedPage(c, http.StatusOK, ws.page(c, "Contact"), templates.Contact(ws.cfg.Site))
}

func (ws *WebServer) handleAuth(c *gin.Context) {
	ws.renderCachedPage(c, http.StatusOK, ws.page(c, "Log in"), templates.Auth(ws.identity))
}

// handleAuthConfig exports the identity declaration for provisioning.
func (ws *WebServer) handleAuthConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ws.identity)
}

// handleUIHeader renders the header alone for the mobile menu toggle.
func (ws *WebServer) handleUIHeader(c *gin.Context) {
	path := c.DefaultQuery("path", "/")
	menuOpen := c.Query("menu") == "open"
	templ.Handler(templates.Header(ws.cfg.Site, path, menuOpen)).ServeHTTP(c.Writer, c.Request)
}

func (ws *WebServer) handleUIPhotos(c *gin.Context) {
	photos, err := ws.db.GetAllPhotos()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error fetching photos: "+err.Error())
		return
	}
	renderComponent(c, http.StatusOK, templates.PhotoRows(photos))
}

func (ws *WebServer) handleNotFound(c *gin.Context) {
	p := ws.page(c, "Not found")
	renderComponent(c, http.StatusNotFound, templates.Layout(p, templates.NotFound()))
}
