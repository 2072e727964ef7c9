package util

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FormatToExt maps export formats to file extensions. Only HTML transcripts are exported.
var FormatToExt = map[string]string{
	"html": "html",
	"htm":  "html",
}

var filenamePattern = regexp.MustCompile(`[\p{L}\p{N}_\-.]+`)

// GetExt returns the file extension for a given format, "html" when unknown.
func GetExt(format string) string {
	ext, ok := FormatToExt[strings.ToLower(format)]
	if !ok {
		return "html"
	}
	return ext
}

// ExtractValidFilename 从用户输入中取出第一个合法的文件名片段
//
// 目录部分保留，文件名中的空格、引号等字符被丢弃。
func ExtractValidFilename(input string) string {
	input = strings.Trim(strings.TrimSpace(input), `"'`)
	if input == "" {
		return ""
	}
	dir, base := filepath.Split(input)
	parts := filenamePattern.FindAllString(base, -1)
	name := strings.Trim(strings.Join(parts, "-"), ".")
	if name == "" {
		return ""
	}
	return dir + name
}

// GetFilename 生成导出文件名
//
// 优先使用用户给出的名字，缺少扩展名时补上；否则使用 "<fallback>.<ext>"。
func GetFilename(requested, fallback, format string) string {
	ext := GetExt(format)
	if name := ExtractValidFilename(requested); name != "" {
		if strings.EqualFold(filepath.Ext(name), "."+ext) {
			return name
		}
		return name + "." + ext
	}
	if fallback = ExtractValidFilename(fallback); fallback == "" {
		fallback = "transcript"
	}
	return fallback + "." + ext
}
