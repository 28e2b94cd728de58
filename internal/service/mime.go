package service

import (
	"path"
	"strings"
)

const defaultMIME = "application/octet-stream"

// Статическая таблица расширение -> MIME. Тип носит справочный характер:
// сервер никогда не меняет обработку файла в зависимости от него.
var mimeByExt = map[string]string{
	".txt":   "text/plain",
	".md":    "text/markdown",
	".html":  "text/html",
	".htm":   "text/html",
	".css":   "text/css",
	".csv":   "text/csv",
	".xml":   "application/xml",
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".jsx":   "text/jsx",
	".ts":    "application/typescript",
	".tsx":   "text/tsx",
	".json":  "application/json",
	".yaml":  "application/yaml",
	".yml":   "application/yaml",
	".toml":  "application/toml",
	".go":    "text/x-go",
	".py":    "text/x-python",
	".rb":    "text/x-ruby",
	".rs":    "text/x-rust",
	".java":  "text/x-java",
	".c":     "text/x-c",
	".h":     "text/x-c",
	".cpp":   "text/x-c++",
	".sh":    "application/x-sh",
	".sql":   "application/sql",
	".pdf":   "application/pdf",
	".zip":   "application/zip",
	".gz":    "application/gzip",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".bmp":   "image/bmp",
	".tiff":  "image/tiff",
	".mp3":   "audio/mpeg",
	".wav":   "audio/wav",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// mimeByPath определяет MIME по расширению файла,
// application/octet-stream для неизвестных
func mimeByPath(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if m, ok := mimeByExt[ext]; ok {
		return m
	}
	return defaultMIME
}
