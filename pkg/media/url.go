package media

import "strings"

// URLResolver turns stored relative image paths into servable absolute URLs.
type URLResolver struct {
	baseURL string
}

func NewURLResolver(baseURL string) *URLResolver {
	return &URLResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve returns nil for an empty reference so JSON renders null.
func (r *URLResolver) Resolve(ref string) *string {
	if ref == "" {
		return nil
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return &ref
	}
	u := r.baseURL + "/" + strings.TrimLeft(ref, "/")
	return &u
}
