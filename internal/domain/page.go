package domain

// MaxPageLimit is the fixed ceiling for page sizes. Requests outside
// [1, MaxPageLimit] are clamped to it.
const MaxPageLimit int64 = 100

// PageQuery is a 1-based page descriptor as requested by the client.
type PageQuery struct {
	Limit  int64
	Number int64
}

// Sanitize clamps the descriptor so Number >= 1 and Limit is in
// [1, MaxPageLimit]. Guarantees Limit is never zero when used as a divisor.
func (p *PageQuery) Sanitize() {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit <= 0 || p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

// Offset returns the number of records to skip for this page.
func (p PageQuery) Offset() int64 {
	return p.Limit * (p.Number - 1)
}

// PageEnvelope is the stable pagination envelope returned by every list
// endpoint. An empty Documents slice past the last page is the client's
// termination signal; CountedDocuments still reflects the true total.
type PageEnvelope[T any] struct {
	Documents        []T   `json:"documents"`
	CountedDocuments int64 `json:"counted_documents"`
	Pages            int64 `json:"pages"`
	PageNumber       int64 `json:"page_number"`
	PageLimit        int64 `json:"page_limit"`
}

// NewPageEnvelope assembles the envelope for one fetched page. page must
// already be sanitized.
func NewPageEnvelope[T any](documents []T, countedDocuments int64, page PageQuery) PageEnvelope[T] {
	if documents == nil {
		documents = []T{}
	}
	pages := countedDocuments / page.Limit
	if countedDocuments%page.Limit > 0 {
		pages++
	}
	return PageEnvelope[T]{
		Documents:        documents,
		CountedDocuments: countedDocuments,
		Pages:            pages,
		PageNumber:       page.Number,
		PageLimit:        page.Limit,
	}
}
