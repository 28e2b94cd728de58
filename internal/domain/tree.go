package domain

const (
	EntryTypeFile = "file"
	EntryTypeDir  = "dir"
)

// TreeEntry — один элемент листинга директории: файл или поддиректория
// первого уровня. Размер заполняется только для файлов.
type TreeEntry struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	SizeBytes *int64 `json:"size,omitempty"`
}

// FileContent — метаданные файла плюс его содержимое в base64.
// Content равен nil, когда байты недоступны в хранилище; причина
// в этом случае лежит в Message.
type FileContent struct {
	Path      string  `json:"path"`
	Hash      string  `json:"hash"`
	SizeBytes int64   `json:"size"`
	Mode      int32   `json:"mode"`
	Content   *string `json:"content"`
	MIME      string  `json:"mime"`
	Message   string  `json:"message,omitempty"`
}
