// Package requests maps domain identifiers to the server's REST paths.
package requests

import "fmt"

const apiRoot = "/api/v1"

// Query parameter names.
const (
	ParamOnlineFetch = "onlineFetch"
	ParamSearchTerm  = "searchTerm"
	ParamPageNum     = "pageNum"
)

func Manga(mangaID int64) string {
	return fmt.Sprintf("%s/manga/%d", apiRoot, mangaID)
}

func MangaThumbnail(mangaID int64) string {
	return fmt.Sprintf("%s/manga/%d/thumbnail", apiRoot, mangaID)
}

func MangaChapters(mangaID int64) string {
	return fmt.Sprintf("%s/manga/%d/chapters", apiRoot, mangaID)
}

func Chapter(mangaID int64, chapterIndex int) string {
	return fmt.Sprintf("%s/manga/%d/chapter/%d", apiRoot, mangaID, chapterIndex)
}

func UpdateChapter(mangaID int64, chapterIndex int) string {
	return Chapter(mangaID, chapterIndex)
}

func ChapterMeta(mangaID int64, chapterIndex int) string {
	return Chapter(mangaID, chapterIndex) + "/meta"
}

func Page(mangaID int64, chapterIndex, pageNum int) string {
	return fmt.Sprintf("%s/page/%d", Chapter(mangaID, chapterIndex), pageNum)
}

func QueueDownloadChapter(mangaID int64, chapterIndex int) string {
	return fmt.Sprintf("%s/download/%d/chapter/%d", apiRoot, mangaID, chapterIndex)
}

func DeleteDownloadChapter(mangaID int64, chapterIndex int) string {
	return QueueDownloadChapter(mangaID, chapterIndex)
}

func SourceList() string {
	return apiRoot + "/source/list"
}

func Source(sourceID int64) string {
	return fmt.Sprintf("%s/source/%d", apiRoot, sourceID)
}

func SourcePopular(sourceID int64, pageNum int) string {
	return fmt.Sprintf("%s/popular/%d", Source(sourceID), pageNum)
}

func SourceLatest(sourceID int64, pageNum int) string {
	return fmt.Sprintf("%s/latest/%d", Source(sourceID), pageNum)
}

// SourceSearch takes ParamSearchTerm and ParamPageNum as query parameters.
func SourceSearch(sourceID int64) string {
	return Source(sourceID) + "/search"
}
