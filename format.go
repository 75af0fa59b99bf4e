package a11y

import (
	"fmt"
	"strconv"
	"strings"
)

// joinFields joins the non-empty fields with a comma.
func joinFields(fields ...string) string {
	var b strings.Builder
	for _, f := range fields {
		if f == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f)
	}
	return b.String()
}

// optionalInt renders name=v unless v equals the default.
func optionalInt(name string, v, def int64) string {
	if v == def {
		return ""
	}
	return name + "=" + strconv.FormatInt(v, 10)
}

// optionalSubObj renders name={v} unless v is nil.
func optionalSubObj(name string, v fmt.Stringer) string {
	if isNil(v) {
		return ""
	}
	return name + "={" + v.String() + "}"
}
