package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Admin       bool     `json:"admin,omitempty"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name      string         `json:"name"`
	Endpoints []endpointInfo `json:"endpoints"`
}

var endpoints = []endpointInfo{
	{"/auth/login", []string{"POST"}, false, "Exchange admin credentials for a token"},
	{"/projects", []string{"GET"}, false, "Published projects"},
	{"/projects/{idOrSlug}", []string{"GET"}, false, "One published project"},
	{"/blog", []string{"GET"}, false, "Published blog posts"},
	{"/blog/{slug}", []string{"GET"}, false, "One published blog post"},
	{"/blog/tags", []string{"GET"}, false, "Tags of published posts"},
	{"/blog/categories", []string{"GET"}, false, "Categories of published posts"},
	{"/profile", []string{"GET", "PUT"}, false, "Site owner profile; PUT requires admin"},
	{"/contact", []string{"POST"}, false, "Send a contact message"},
	{"/admin/dashboard/stats", []string{"GET"}, true, "Content counts"},
	{"/admin/profile/resume/upload", []string{"POST"}, true, "Upload a resume (multipart field \"resume\")"},
	{"/admin/projects", []string{"GET", "POST"}, true, "All projects"},
	{"/admin/projects/{id}", []string{"GET", "PUT", "DELETE"}, true, "One project"},
	{"/admin/blog/all", []string{"GET"}, true, "All blog posts"},
	{"/admin/blog", []string{"POST"}, true, "Create a blog post"},
	{"/admin/blog/{id}", []string{"GET", "PUT", "DELETE"}, true, "One blog post"},
	{"/admin/contact-submissions", []string{"GET"}, true, "Contact submissions"},
	{"/admin/contact-submissions/{id}/status", []string{"PATCH"}, true, "Mark a submission read or unread"},
	{"/admin/contact-submissions/{id}", []string{"DELETE"}, true, "Delete a submission"},
	{"/health", []string{"GET"}, false, "Server health"},
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	out := make([]endpointInfo, len(endpoints))
	for i, e := range endpoints {
		e.Path = s.config.APIPrefix + e.Path
		out[i] = e
	}
	respondJSON(w, http.StatusOK, discoveryResponse{Name: "folio API", Endpoints: out})
}
