package catalog

// Movie is one catalog entry, decoded verbatim from the TMDB response.
// Immutable within a run.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date,omitempty"`
	PosterPath  string  `json:"poster_path,omitempty"`
}

// topRatedResponse mirrors the TMDB list envelope. Only the results are
// used; paging fields are kept for completeness of the wire format.
type topRatedResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}
