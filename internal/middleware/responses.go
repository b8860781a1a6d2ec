package middleware

import "net/http"

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	http.Error(w, msg, code)
}
