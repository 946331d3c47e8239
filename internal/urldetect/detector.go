// Package urldetect recognizes social-video URLs from a static pattern table.
package urldetect

import "regexp"

// urlPattern finds URL candidates in free-form text before platform matching.
var urlPattern = regexp.MustCompile(`(?i)https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

// trailingPunct strips sentence punctuation that trails a pasted URL.
var trailingPunct = regexp.MustCompile(`[.,;!?]+$`)

var platformPatterns = map[string][]*regexp.Regexp{
	"youtube": {
		regexp.MustCompile(`(?i)^https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+`),
		regexp.MustCompile(`(?i)^https?://(?:www\.)?youtube\.com/shorts/[\w-]+`),
		regexp.MustCompile(`(?i)^https?://youtu\.be/[\w-]+`),
		regexp.MustCompile(`(?i)^https?://(?:m\.)?youtube\.com/watch\?v=[\w-]+`),
	},
	"instagram": {
		regexp.MustCompile(`(?i)^https?://(?:www\.)?instagram\.com/reel/[\w-]+`),
		regexp.MustCompile(`(?i)^https?://(?:www\.)?instagram\.com/p/[\w-]+`),
		regexp.MustCompile(`(?i)^https?://(?:www\.)?instagram\.com/tv/[\w-]+`),
	},
	"tiktok": {
		regexp.MustCompile(`(?i)^https?://(?:www\.)?tiktok\.com/@[\w.-]+/video/\d+`),
		regexp.MustCompile(`(?i)^https?://vm\.tiktok\.com/[\w-]+`),
		regexp.MustCompile(`(?i)^https?://(?:www\.)?tiktok\.com/t/[\w-]+`),
	},
}

// ExtractVideoURLs returns the supported video URLs found in the text, in
// order of appearance, with trailing sentence punctuation removed.
func ExtractVideoURLs(text string) []string {
	var found []string
	for _, candidate := range urlPattern.FindAllString(text, -1) {
		cleaned := cleanURL(candidate)
		if Validate(cleaned) {
			found = append(found, cleaned)
		}
	}
	return found
}

// Validate reports whether the URL belongs to a supported platform.
func Validate(url string) bool {
	return Platform(url) != "unknown"
}

// Platform returns the platform a URL belongs to, or "unknown".
func Platform(url string) string {
	for platform, patterns := range platformPatterns {
		for _, p := range patterns {
			if p.MatchString(url) {
				return platform
			}
		}
	}
	return "unknown"
}

// IsSupportedPlatform reports whether the platform name is in the table.
func IsSupportedPlatform(platform string) bool {
	_, ok := platformPatterns[platform]
	return ok
}

func cleanURL(url string) string {
	return trailingPunct.ReplaceAllString(url, "")
}
