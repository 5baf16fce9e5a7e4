package flamescale

import (
	"net/http"

	"github.com/flamescale/flamescale/version"
)

func VersionHandler(w http.ResponseWriter, r *http.Request) {
	ReplyJSON(w, version.Details())
}
