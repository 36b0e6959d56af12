package catalog

import "regexp"

// videoIDPattern matches the YouTube URL shapes seen in submissions:
// watch?v=, youtu.be/, embed/, shorts/, v/ and a v= parameter that is not
// first in the query string. IDs are exactly 11 characters.
var videoIDPattern = regexp.MustCompile(
	`(?:youtube\.com/watch\?(?:[^#]*&)?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/|youtube\.com/v/|youtube-nocookie\.com/embed/)([A-Za-z0-9_-]{11})(?:$|[^A-Za-z0-9_-])`,
)

// ExtractVideoID returns the video id embedded in url, if any.
func ExtractVideoID(url string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}
