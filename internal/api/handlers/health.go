package handlers

import "net/http"

func Health(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Health OK")
}
