package sfx

import (
	"strings"
)

// ExportConstants is used to export all currently loaded SFX,
// in a format that can be used to generate go constants.
func ExportConstants() map[string]string {
	lock.RLock()
	defer lock.RUnlock()
	export := make(map[string]string, len(loadedSfx))
	for id := range loadedSfx {
		var sb strings.Builder
		capsNext := true
		for i := 0; i < len(id); i++ {
			c := id[i]
			if c == '-' || c == '_' || c == '.' || c == ' ' {
				capsNext = true
				continue
			}
			if capsNext {
				c = strings.ToUpper(string(c))[0]
				capsNext = false
			}
			sb.WriteByte(c)
		}
		export[sb.String()] = string(id)
	}
	return export
}
