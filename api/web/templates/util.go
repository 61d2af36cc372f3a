package templates

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/aouyang1/portfolio/store"
)

func photoImageURL(photo store.Photo) string {
	return fmt.Sprintf("/api/photos/%s/image", url.PathEscape(photo.ID))
}

func deleteURL(photo store.Photo) string {
	return fmt.Sprintf("/api/photos/%s", url.PathEscape(photo.ID))
}

func sliderURL(id string, parts ...string) string {
	u := "/slider/" + url.PathEscape(id)
	for _, p := range parts {
		u += "/" + p
	}
	return u
}

func sliderGoToURL(id string, index int) string {
	return sliderURL(id, "goto", strconv.Itoa(index))
}

func projectURL(slug string) string {
	return "/projects/" + url.PathEscape(slug)
}

// projectsFilterURL links to the project list with one filter applied.
func projectsFilterURL(key, value string) string {
	q := url.Values{}
	q.Set(key, value)
	return "/projects?" + q.Encode()
}

func headerURL(path string, menuOpen bool) string {
	q := url.Values{}
	q.Set("path", path)
	if menuOpen {
		q.Set("menu", "open")
	}
	return "/ui/header?" + q.Encode()
}

func pageURL(base url.Values, page int) string {
	q := url.Values{}
	for k, v := range base {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return "/projects?" + q.Encode()
}
