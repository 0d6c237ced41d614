package domain

// FetchedPage is one documentation page as returned by the corpus
// fetcher. A page that exhausted its retries carries Err instead of Text;
// its siblings are unaffected.
type FetchedPage struct {
	// URL is the canonical page address, used as the chunk Source.
	URL string

	// Title is the page title, when the portal provides one.
	Title string

	// Kind is DocKindArticle or DocKindModel.
	Kind string

	// Text is the rendered plain-text content.
	Text string

	// Err records the terminal fetch failure, if any.
	Err error
}

// Failed reports whether this page is a failure placeholder.
func (p FetchedPage) Failed() bool {
	return p.Err != nil
}
