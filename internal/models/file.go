package models

import (
	"time"
)

// StoredFile is a row in the file table; the payload lives on disk under
// the storage root at DiskPath.
type StoredFile struct {
	ID           int64     `json:"id"`
	ContextID    int64     `json:"context_id"` // owning course module id
	Component    string    `json:"component"`
	FileArea     string    `json:"file_area"`
	ItemID       int64     `json:"item_id"`
	FilePath     string    `json:"file_path"`
	FileName     string    `json:"file_name"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `json:"mime_type"`
	DiskPath     string    `json:"-"`
	TimeModified time.Time `json:"time_modified"`
}

// PluginFileURL builds the stable download URL for a stored file.
func (f *StoredFile) PluginFileURL(baseURL string) string {
	return baseURL + "/pluginfile.php/" + itoa64(f.ContextID) + "/" + f.Component +
		"/" + f.FileArea + "/" + itoa64(f.ItemID) + f.FilePath + f.FileName
}

// ResourceFile is the template-facing shape of a stored file.
type ResourceFile struct {
	FileName     string `json:"filename"`
	FileSize     string `json:"filesize"`
	MimeType     string `json:"mimetype"`
	Icon         string `json:"icon"`
	URL          string `json:"url"`
	DownloadURL  string `json:"download_url"`
	TimeModified string `json:"time_modified"`
}
