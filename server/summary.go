package server

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

// System route paths registered by RegisterDefaultEndpoints.
var systemPaths = map[string]bool{
	"/health":  true,
	"/alive":   true,
	"/ready":   true,
	"/version": true,
}

var methodRank = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

func rankOf(method string) int {
	if i := slices.Index(methodRank, method); i >= 0 {
		return i
	}
	return len(methodRank)
}

// sortRoutes orders stream routes before system routes, then by path and
// method.
func sortRoutes(routes gin.RoutesInfo) {
	slices.SortFunc(routes, func(a, b gin.RouteInfo) int {
		if sa, sb := systemPaths[a.Path], systemPaths[b.Path]; sa != sb {
			if sa {
				return 1
			}
			return -1
		}
		return cmp.Or(
			strings.Compare(a.Path, b.Path),
			cmp.Compare(rankOf(a.Method), rankOf(b.Method)),
		)
	})
}

// formatHandlerName shortens the function name gin records for a handler:
//
//	github.com/kbukum/rxkit/sse.Handler[...].func1  -> handler
//	github.com/acme/api/port.(*UserPort).List-fm    -> UserPort.List
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")
	name = name[strings.LastIndex(name, "/")+1:]
	name = strings.NewReplacer("[...]", "", "(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	closure := false
	for len(parts) > 1 && strings.HasPrefix(parts[len(parts)-1], "func") {
		parts = parts[:len(parts)-1]
		closure = true
	}
	if closure {
		return strings.ToLower(parts[len(parts)-1])
	}
	if len(parts) > 1 && !strings.ContainsFunc(parts[0], unicode.IsUpper) {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}
