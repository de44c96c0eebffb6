package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CanonicalModuleURL is the in-format link to a module: the course page
// itself with the module embedded. Bookmarks rely on this shape.
func CanonicalModuleURL(baseURL string, courseID int64, modName string, cmID int64) string {
	return fmt.Sprintf("%s/course/view.php?id=%d&modtype=%s&modid=%d", baseURL, courseID, modName, cmID)
}

func CourseURL(baseURL string, courseID int64) string {
	return fmt.Sprintf("%s/course/view.php?id=%d", baseURL, courseID)
}

func SectionURL(baseURL string, courseID int64, sectionNum int) string {
	return fmt.Sprintf("%s/course/view.php?id=%d&section=%d", baseURL, courseID, sectionNum)
}

func CategoryURL(baseURL string, categoryID int64) string {
	return fmt.Sprintf("%s/course/index.php?categoryid=%d", baseURL, categoryID)
}

var embedSrcRegex = regexp.MustCompile(`src="([^"]+)"`)

// ExtractEmbedSrc pulls the iframe src URL out of a pasted embed code.
func ExtractEmbedSrc(embedCode string) string {
	m := embedSrcRegex.FindStringSubmatch(embedCode)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

var modTypeRegex = regexp.MustCompile(`^[a-z]+$`)

// ParseModParams validates the (modtype, modid) query pair. modtype must
// be alphabetic and modid a positive integer; anything else is rejected
// so the caller falls back to the plain course page.
func ParseModParams(modType, modIDRaw string) (string, int64, bool) {
	if modType == "" || !modTypeRegex.MatchString(modType) {
		return "", 0, false
	}
	id, err := strconv.ParseInt(modIDRaw, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return modType, id, true
}

// DisplaySize formats a byte count for the resources list.
func DisplaySize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d bytes", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}

// FileExt returns the lower-cased extension without the dot.
func FileExt(fileName string) string {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return ""
	}
	return strings.ToLower(fileName[idx+1:])
}
