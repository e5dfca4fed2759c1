package server

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

const maxBody = 1 << 20

// form holds trimmed request fields from a urlencoded or JSON body.
type form map[string]string

func (f form) get(key string) string { return f[key] }

func readForm(r *http.Request) (form, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	out := form{}
	if mediaType == "application/json" {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %v", err)
		}
		for k, v := range raw {
			switch t := v.(type) {
			case string:
				out[k] = strings.TrimSpace(t)
			case float64:
				out[k] = strconv.FormatFloat(t, 'f', -1, 64)
			case []any:
				parts := make([]string, 0, len(t))
				for _, item := range t {
					if s, ok := item.(string); ok {
						parts = append(parts, s)
					}
				}
				out[k] = strings.Join(parts, ",")
			}
		}
		return out, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %v", err)
	}
	for k := range r.PostForm {
		out[k] = strings.TrimSpace(r.PostForm.Get(k))
	}
	return out, nil
}
