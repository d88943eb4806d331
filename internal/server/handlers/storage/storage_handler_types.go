package storage

import (
	"time"
)

type ListRequest struct {
	Prefix string `form:"prefix"`
	Match  string `form:"match"`
}

type EntryResponse struct {
	Key          string     `json:"key"`
	Path         string     `json:"path"`
	Name         string     `json:"name"`
	IsFolder     bool       `json:"isFolder"`
	Size         uint64     `json:"size"`
	LastModified *time.Time `json:"lastModified"`
}

type ListResponse struct {
	Prefix  string           `json:"prefix"`
	Folders []*EntryResponse `json:"folders"`
	Files   []*EntryResponse `json:"files"`
}

type CreateFolderRequest struct {
	Name       string `json:"name"`
	ParentPath string `json:"parentPath"`
	Actor      string `json:"actor"`
}

type FolderResponse struct {
	Key       string    `json:"key"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type DeleteRequest struct {
	Key      string `form:"key" binding:"required"`
	IsFolder bool   `form:"isFolder"`
}

type KeyFailureResponse struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

type DeleteResponse struct {
	Key      string                `json:"key"`
	Path     string                `json:"path"`
	IsFolder bool                  `json:"isFolder"`
	Outcome  string                `json:"outcome"`
	Deleted  int                   `json:"deleted"`
	Batches  int                   `json:"batches"`
	Failed   []*KeyFailureResponse `json:"failed"`
}

type RenameRequest struct {
	OldKey   string `json:"oldKey" binding:"required"`
	NewKey   string `json:"newKey" binding:"required"`
	IsFolder bool   `json:"isFolder"`
}

type MoveResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type RenameResponse struct {
	OldKey   string          `json:"oldKey"`
	NewKey   string          `json:"newKey"`
	IsFolder bool            `json:"isFolder"`
	Outcome  string          `json:"outcome"`
	Moved    int             `json:"moved"`
	Moves    []*MoveResponse `json:"moves"`
}

type UploadFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// PresignUploadRequest takes either a batch in Files or a single Filename/ContentType
type PresignUploadRequest struct {
	Files       []UploadFile `json:"files"`
	Filename    string       `json:"filename"`
	ContentType string       `json:"contentType"`
	ParentPath  string       `json:"parentPath"`
	Actor       string       `json:"actor"`
	TTLSeconds  int64        `json:"ttlSeconds"`
}

type PresignDownloadRequest struct {
	Key        string `form:"key" binding:"required"`
	TTLSeconds int64  `form:"ttlSeconds"`
}

type GrantResponse struct {
	Key       string            `json:"key"`
	Path      string            `json:"path"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Headers   map[string]string `json:"headers"`
}

type GrantError struct {
	Filename string `json:"filename"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

type PresignUploadResponse struct {
	Grants []*GrantResponse `json:"grants"`
	Errors []*GrantError    `json:"errors"`
}
