package handlers

import (
	"net/http"

	"github.com/dropDatabas3/hellocms/internal/deprecation"
	"github.com/dropDatabas3/hellocms/internal/web/request"
	"github.com/dropDatabas3/hellocms/internal/web/variables"
)

// RequestHandler devuelve lo que un template vería en craft.request.
type RequestHandler struct {
	opts request.Options
	dep  deprecation.Logger
}

func NewRequestHandler(opts request.Options, dep deprecation.Logger) *RequestHandler {
	return &RequestHandler{opts: opts, dep: dep}
}

type requestSnapshot struct {
	Method                 string   `json:"method"`
	IsAjax                 bool     `json:"isAjax"`
	IsSecure               bool     `json:"isSecure"`
	IsLivePreview          bool     `json:"isLivePreview"`
	IsMobileBrowser        bool     `json:"isMobileBrowser"`
	URLFormat              string   `json:"urlFormat"`
	ScriptName             string   `json:"scriptName"`
	ScriptURL              string   `json:"scriptUrl"`
	Path                   string   `json:"path"`
	PathInfo               string   `json:"pathInfo"`
	URL                    string   `json:"url"`
	RequestURI             string   `json:"requestUri"`
	Segments               []string `json:"segments"`
	FirstSegment           string   `json:"firstSegment"`
	LastSegment            string   `json:"lastSegment"`
	PageNum                int      `json:"pageNum"`
	QueryString            string   `json:"queryString"`
	QueryStringWithoutPath string   `json:"queryStringWithoutPath"`
	ServerName             string   `json:"serverName"`
	ServerPort             int      `json:"serverPort"`
	Port                   int      `json:"port"`
	HostInfo               string   `json:"hostInfo"`
	URLReferrer            string   `json:"urlReferrer,omitempty"`
	UserAgent              string   `json:"userAgent"`
	UserIP                 string   `json:"userIp"`
	UserHost               string   `json:"userHost,omitempty"`
	ClientOS               string   `json:"clientOs"`
	CSRFToken              string   `json:"csrfToken,omitempty"`

	// Solo con ?legacy=1; cada acceso registra su deprecación.
	IPAddress string `json:"ipAddress,omitempty"`
}

// Snapshot: GET /v1/request
func (h *RequestHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(deprecation.WithOrigin(r.Context(), r.URL.Path))
	v := variables.NewHTTPRequest(request.New(r, h.opts), h.dep)

	segments := v.Segments()
	if segments == nil {
		segments = []string{}
	}
	snap := requestSnapshot{
		Method:                 r.Method,
		IsAjax:                 v.IsAjax(),
		IsSecure:               v.IsSecure(),
		IsLivePreview:          v.IsLivePreview(),
		IsMobileBrowser:        v.IsMobileBrowser(false),
		URLFormat:              v.URLFormat(),
		ScriptName:             v.ScriptName(),
		ScriptURL:              v.ScriptURL(),
		Path:                   v.Path(),
		PathInfo:               v.PathInfo(),
		URL:                    v.URL(),
		RequestURI:             v.RequestURI(),
		Segments:               segments,
		FirstSegment:           v.FirstSegment(),
		LastSegment:            v.LastSegment(),
		PageNum:                v.PageNum(),
		QueryString:            v.QueryString(),
		QueryStringWithoutPath: v.QueryStringWithoutPath(),
		ServerName:             v.ServerName(),
		ServerPort:             v.ServerPort(),
		Port:                   v.Port(),
		HostInfo:               v.HostInfo(""),
		URLReferrer:            v.URLReferrer(),
		UserAgent:              v.UserAgent(),
		UserIP:                 v.UserIP(),
		UserHost:               v.UserHost(),
		ClientOS:               v.ClientOS(),
		CSRFToken:              v.CSRFToken(),
	}
	if v.QueryParam("legacy", "") == "1" {
		snap.IPAddress = v.IPAddress()
	}
	writeJSON(w, http.StatusOK, snap)
}
