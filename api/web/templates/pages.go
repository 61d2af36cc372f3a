package templates

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/aouyang1/portfolio/auth"
	"github.com/aouyang1/portfolio/config"
	"github.com/aouyang1/portfolio/slideshow"
	"github.com/aouyang1/portfolio/store"
)

type HomeData struct {
	SliderID string
	Slider   slideshow.View
	Skills   []store.SkillCategory
	Featured []store.Project
}

func Home(site config.Site, d HomeData) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		p := site.Personal

		hw.raw(`<section class="hero"><div class="container hero-grid">`)
		hw.raw(`<div class="hero-media">`)
		hw.render(ctx, Slider(d.SliderID, d.Slider))
		hw.raw(`</div>`)
		hw.raw(`<div class="hero-text">`)
		hw.raw(`<h1>Creating value in IT<span class="accent">as a future engineer</span></h1>`)
		hw.raw(`<p class="lead">Balancing technical skill and people skills to contribute to teams and society.</p>`)
		hw.raw(`<p>`)
		hw.text("I study " + p.Major + " and sharpen my skills through hands-on projects. My goal: " + p.Goal + ".")
		hw.raw(`</p>`)
		hw.raw(`<div class="actions"><a class="btn btn-primary" href="/projects">View projects</a>`)
		hw.raw(`<a class="btn btn-outline" href="/about">About me</a></div>`)
		hw.raw(`</div></div></section>`)

		hw.raw(`<section class="section section-muted"><div class="container narrow">`)
		hw.raw(`<h2>Profile</h2><dl class="profile-grid">`)
		for _, item := range [][2]string{
			{"Affiliation", p.University},
			{"Major", p.Major},
			{"Strengths", p.Skills},
			{"Goal", p.Goal},
		} {
			hw.raw(`<div class="card"><dt>`)
			hw.text(item[0])
			hw.raw(`</dt><dd>`)
			hw.text(item[1])
			hw.raw(`</dd></div>`)
		}
		hw.raw(`</dl></div></section>`)

		if len(d.Skills) > 0 {
			hw.raw(`<section class="section"><div class="container narrow">`)
			hw.raw(`<h2>Technical skills</h2><div class="skills-grid">`)
			for _, c := range d.Skills {
				writeSkillCategory(hw, c)
			}
			hw.raw(`</div></div></section>`)
		}

		if len(d.Featured) > 0 {
			hw.raw(`<section class="section section-muted"><div class="container">`)
			hw.raw(`<h2>Featured projects</h2><div class="project-grid">`)
			for _, pr := range d.Featured {
				writeProjectCard(hw, pr)
			}
			hw.raw(`</div></div></section>`)
		}

		hw.raw(`<section class="section cta"><div class="container narrow">`)
		hw.raw(`<h2>Let's work together</h2>`)
		hw.raw(`<p>I am open to internships, collaborations and interesting conversations.</p>`)
		hw.raw(`<div class="actions"><a class="btn btn-primary" href="/contact">Get in touch</a>`)
		hw.raw(`<a class="btn btn-outline"`)
		hw.href(site.Links.Resume)
		hw.raw(` download>Download resume</a></div>`)
		hw.raw(`</div></section>`)
	})
}

func writeSkillCategory(hw *htmlWriter, c store.SkillCategory) {
	hw.raw(`<div class="card skill-card"><div class="skill-head"><h3>`)
	hw.text(c.Name)
	hw.raw(`</h3><span`)
	hw.attr("class", "badge badge-"+c.Color)
	hw.raw(`>`)
	hw.text(c.Level)
	hw.raw(`</span></div><div class="chips">`)
	for _, s := range c.Skills {
		hw.raw(`<span class="chip">`)
		hw.text(s)
		hw.raw(`</span>`)
	}
	hw.raw(`</div></div>`)
}

func writeProjectCard(hw *htmlWriter, p store.Project) {
	hw.raw(`<article class="card project-card">`)
	if p.Featured {
		hw.raw(`<span class="badge badge-purple">Featured</span>`)
	}
	hw.raw(`<h3><a`)
	hw.href(projectURL(p.Slug))
	hw.raw(`>`)
	hw.text(p.Title)
	hw.raw(`</a></h3><p>`)
	hw.text(p.Description)
	hw.raw(`</p><div class="chips">`)
	for _, t := range p.Technologies {
		hw.raw(`<a class="chip"`)
		hw.href(projectsFilterURL("tech", t))
		hw.raw(`>`)
		hw.text(t)
		hw.raw(`</a>`)
	}
	hw.raw(`</div></article>`)
}

type ProjectsData struct {
	Projects     []store.Project
	Total        int
	Page         int
	Limit        int
	Query        url.Values
	Search       string
	Category     string
	Technology   string
	Technologies []string
}

var ProjectCategories = []string{"web-development", "data-analysis", "ai-ml", "infrastructure"}

func categoryLabel(c string) string {
	switch c {
	case "web-development":
		return "Web development"
	case "data-analysis":
		return "Data analysis"
	case "ai-ml":
		return "AI / ML"
	case "infrastructure":
		return "Infrastructure"
	default:
		return c
	}
}

func Projects(d ProjectsData) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<section class="section"><div class="container">`)
		hw.raw(`<h1>Projects</h1>`)

		hw.raw(`<form class="filters" method="get" action="/projects">`)
		hw.raw(`<input type="search" name="q" placeholder="Search projects"`)
		hw.attr("value", d.Search)
		hw.raw(`>`)
		hw.raw(`<select name="category"><option value="">All categories</option>`)
		for _, c := range ProjectCategories {
			hw.raw(`<option`)
			hw.attr("value", c)
			if c == d.Category {
				hw.raw(` selected`)
			}
			hw.raw(`>`)
			hw.text(categoryLabel(c))
			hw.raw(`</option>`)
		}
		hw.raw(`</select>`)
		hw.raw(`<select name="tech"><option value="">All technologies</option>`)
		for _, t := range d.Technologies {
			hw.raw(`<option`)
			hw.attr("value", t)
			if strings.EqualFold(t, d.Technology) {
				hw.raw(` selected`)
			}
			hw.raw(`>`)
			hw.text(t)
			hw.raw(`</option>`)
		}
		hw.raw(`</select>`)
		hw.raw(`<button type="submit" class="btn btn-primary btn-sm">Filter</button>`)
		hw.raw(`</form>`)

		hw.raw(`<p class="muted">`)
		hw.text(strconv.Itoa(d.Total) + ifElse(d.Total == 1, " project", " projects"))
		hw.raw(`</p>`)

		if len(d.Projects) == 0 {
			hw.raw(`<p class="empty">No projects match these filters.</p>`)
		} else {
			hw.raw(`<div class="project-grid">`)
			for _, p := range d.Projects {
				writeProjectCard(hw, p)
			}
			hw.raw(`</div>`)
		}

		if d.Limit > 0 && d.Total > d.Limit {
			pages := (d.Total + d.Limit - 1) / d.Limit
			hw.raw(`<nav class="pagination" aria-label="Pagination">`)
			for i := 1; i <= pages; i++ {
				hw.raw(`<a`)
				hw.href(pageURL(d.Query, i))
				if i == d.Page {
					hw.raw(` class="is-current" aria-current="page"`)
				}
				hw.raw(`>`)
				hw.text(strconv.Itoa(i))
				hw.raw(`</a>`)
			}
			hw.raw(`</nav>`)
		}
		hw.raw(`</div></section>`)
	})
}

func ProjectDetail(p store.Project) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<article class="section"><div class="container narrow">`)
		hw.raw(`<p><a href="/projects">&larr; All projects</a></p>`)
		hw.raw(`<h1>`)
		hw.text(p.Title)
		hw.raw(`</h1><p class="muted">`)
		hw.text(categoryLabel(p.Category))
		if !p.StartedAt.IsZero() {
			hw.text(" · started " + p.StartedAt.Format("January 2006"))
		}
		hw.text(" · complexity " + strconv.Itoa(p.Complexity) + "/5")
		hw.raw(`</p><p class="lead">`)
		hw.text(p.Description)
		hw.raw(`</p>`)
		if p.LongDescription != "" {
			for _, para := range strings.Split(strings.TrimSpace(p.LongDescription), "\n\n") {
				hw.raw(`<p>`)
				hw.text(para)
				hw.raw(`</p>`)
			}
		}
		hw.raw(`<div class="chips">`)
		for _, t := range p.Technologies {
			hw.raw(`<a class="chip"`)
			hw.href(projectsFilterURL("tech", t))
			hw.raw(`>`)
			hw.text(t)
			hw.raw(`</a>`)
		}
		hw.raw(`</div><div class="actions">`)
		for _, link := range [][2]string{{p.GitHubURL, "Source on GitHub"}, {p.DemoURL, "Live demo"}, {p.ArticleURL, "Write-up"}} {
			if link[0] == "" {
				continue
			}
			hw.raw(`<a class="btn btn-outline" target="_blank" rel="noopener noreferrer"`)
			hw.href(link[0])
			hw.raw(`>`)
			hw.text(link[1])
			hw.raw(`</a>`)
		}
		hw.raw(`</div></div></article>`)
	})
}

func About(site config.Site, skills []store.SkillCategory) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		p := site.Personal
		hw.raw(`<section class="section"><div class="container narrow">`)
		hw.raw(`<h1>About</h1><p class="lead">`)
		hw.text(p.Name)
		hw.raw(`</p><dl class="profile-list">`)
		for _, item := range [][2]string{
			{"Affiliation", p.University},
			{"Major", p.Major},
			{"Strengths", p.Skills},
			{"Goal", p.Goal},
		} {
			hw.raw(`<dt>`)
			hw.text(item[0])
			hw.raw(`</dt><dd>`)
			hw.text(item[1])
			hw.raw(`</dd>`)
		}
		hw.raw(`</dl>`)
		if len(skills) > 0 {
			hw.raw(`<h2>Skills</h2><div class="skills-grid">`)
			for _, c := range skills {
				writeSkillCategory(hw, c)
			}
			hw.raw(`</div>`)
		}
		hw.raw(`</div></section>`)
	})
}

func Contact(site config.Site) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<section class="section"><div class="container narrow">`)
		hw.raw(`<h1>Contact</h1><p>The quickest way to reach me is by email.</p>`)
		hw.raw(`<ul class="contact-list">`)
		hw.raw(`<li>Email: <a`)
		hw.href("mailto:" + site.Personal.Email)
		hw.raw(`>`)
		hw.text(site.Personal.Email)
		hw.raw(`</a></li>`)
		for _, link := range [][2]string{{"GitHub", site.Links.GitHub}, {"LinkedIn", site.Links.LinkedIn}} {
			if link[1] == "" {
				continue
			}
			hw.raw(`<li>`)
			hw.text(link[0])
			hw.raw(`: <a target="_blank" rel="noopener noreferrer"`)
			hw.href(link[1])
			hw.raw(`>`)
			hw.text(link[1])
			hw.raw(`</a></li>`)
		}
		hw.raw(`</ul></div></section>`)
	})
}

// Auth renders the landing page for the hosted sign-in flow. Credentials are
// never entered on this site.
func Auth(identity auth.IdentityConfig) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<section class="section"><div class="container narrow">`)
		hw.raw(`<h1>Log in</h1>`)
		if identity.SignInURL() == "" {
			hw.raw(`<p class="muted">Sign-in is not configured for this site yet.</p>`)
		} else {
			hw.raw(`<p>Sign in or create an account with your email address. We will email you a verification code.</p>`)
			hw.raw(`<div class="actions"><a class="btn btn-primary"`)
			hw.href(identity.SignInURL())
			hw.raw(`>Sign in</a><a class="btn btn-outline"`)
			hw.href(identity.SignUpURL())
			hw.raw(`>Create account</a></div>`)
		}
		hw.raw(`<h2>What we collect</h2><ul>`)
		for _, a := range identity.Attributes {
			hw.raw(`<li>`)
			hw.text(attributeLabel(a.Name))
			hw.text(ifElse(a.Required, " (required)", " (optional)"))
			hw.raw(`</li>`)
		}
		hw.raw(`</ul></div></section>`)
	})
}

func attributeLabel(name string) string {
	switch name {
	case "email":
		return "Email address"
	case "preferred_username":
		return "Preferred username"
	case "given_name":
		return "Given name"
	case "family_name":
		return "Family name"
	default:
		return name
	}
}

func NotFound() templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<section class="section"><div class="container narrow">`)
		hw.raw(`<h1>Page not found</h1><p>The page you are looking for does not exist.</p>`)
		hw.raw(`<p><a class="btn btn-primary" href="/">Back to home</a></p>`)
		hw.raw(`</div></section>`)
	})
}

// PhotoRows lists registered photos for the photo admin view.
func PhotoRows(photos []store.Photo) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<div class="photo-row">`)
		for _, p := range photos {
			hw.raw(`<div class="photo-item"><img class="photo-thumbnail"`)
			hw.attr("src", photoImageURL(p))
			hw.attr("alt", p.Alt)
			hw.raw(`><span class="photo-meta">`)
			hw.text(p.Filename + " · " + p.Category + " · " + p.AspectRatio)
			hw.raw(`</span><button type="button" class="photo-delete-btn" title="Delete photo"`)
			hw.attr("hx-delete", deleteURL(p))
			hw.raw(` hx-confirm="Delete this photo?" hx-target="closest .photo-item" hx-swap="outerHTML">Delete</button>`)
			hw.raw(`</div>`)
		}
		hw.raw(`</div>`)
	})
}
