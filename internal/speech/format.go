package speech

import (
	"path/filepath"
	"strings"
)

// spokenExtensions maps file extensions to how they are read aloud.
// Longer extensions are listed before their prefixes (.json before .js)
// and matched in order.
var spokenExtensions = []struct{ ext, spoken string }{
	{".json", " json file"},
	{".jsx", " react file"},
	{".tsx", " react file"},
	{".js", " javascript file"},
	{".ts", " typescript file"},
	{".py", " python file"},
	{".go", " go file"},
	{".md", " markdown file"},
	{".txt", " text file"},
	{".yml", " yaml file"},
	{".yaml", " yaml file"},
	{".toml", " toml file"},
	{".sh", " shell script"},
	{".sql", " sql file"},
	{".html", " html file"},
	{".css", " stylesheet"},
}

// FormatForSpeech turns a file path into something natural to say:
// "user_config.py" becomes "user config python file".
func FormatForSpeech(path string) string {
	name := filepath.Base(path)

	suffix := ""
	for _, e := range spokenExtensions {
		if strings.HasSuffix(strings.ToLower(name), e.ext) {
			name = name[:len(name)-len(e.ext)]
			suffix = e.spoken
			break
		}
	}

	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name) + suffix
}
