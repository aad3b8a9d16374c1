package message

import (
	"fmt"
	"strings"
	"time"

	"filmbot/internal/catalog"
)

// Public movie page used for the caption hyperlink.
const movieURLFormat = "https://www.themoviedb.org/movie/%d"

// EscapeHTML escapes the characters Telegram's HTML parse mode treats
// as markup. Ampersand goes first so the entities produced by the angle
// bracket replacements are not corrupted. Not idempotent.
func EscapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// DateTag renders a calendar date in compact numeric form (YYYYMMDD).
func DateTag(t time.Time) string {
	return t.Format("20060102")
}

// Format renders the caption for one approved movie. ordinal is the
// 1-based position of the movie within this run's delivery sequence;
// together with the date it makes the search tag unique per message.
// Only the title and description are escaped.
func Format(movie catalog.Movie, description string, ordinal int, now time.Time) string {
	releaseYear := "N/A"
	if len(movie.ReleaseDate) >= 4 {
		releaseYear = movie.ReleaseDate[:4]
	}
	rating := fmt.Sprintf("%.1f", movie.VoteAverage)
	title := EscapeHTML(movie.Title)
	escaped := EscapeHTML(description)
	uniqueTag := fmt.Sprintf("#film%s%d", DateTag(now), ordinal)
	link := fmt.Sprintf(movieURLFormat, movie.ID)

	return strings.TrimSpace(fmt.Sprintf(`
🎬 Назва: <b>%s</b> (%s)
⭐️ Рейтинг: <b>%s/10</b>

📖 <u>Про що фільм:</u>
%s

🔎 Пошук у Telegram: %s
#фільм #рекомендація

<a href="%s">Детальніше на TMDB</a>
`, title, releaseYear, rating, escaped, uniqueTag, link))
}

// PosterURL builds the full image URL for a movie poster. Returns
// empty when the movie has no poster path.
func PosterURL(imageBaseURL string, movie catalog.Movie) string {
	if movie.PosterPath == "" {
		return ""
	}
	return imageBaseURL + movie.PosterPath
}
