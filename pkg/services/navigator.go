package services

// Navigator sends the visitor to another page. The submission workflow
// calls it once, on confirmed success.
type Navigator interface {
	Navigate(url string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(url string)

func (f NavigatorFunc) Navigate(url string) {
	f(url)
}

// Redirect records the navigation target so the HTTP layer can act on it
type Redirect struct {
	URL string
}

func (r *Redirect) Navigate(url string) {
	r.URL = url
}
