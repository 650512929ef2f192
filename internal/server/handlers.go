package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/tomz197/portfolio/internal/portfolio"
)

type indexData struct {
	Profile  portfolio.Profile
	Featured []portfolio.Project
	Groups   []skillGroup
	SSHHost  string
}

type skillGroup struct {
	Category portfolio.Category
	Skills   []portfolio.Skill
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Profile:  s.content.Profile,
		Featured: s.content.FeaturedProjects(),
		SSHHost:  s.cfg.SSHDisplayHost,
	}
	for _, cat := range portfolio.Categories {
		if skills := s.content.SkillsByCategory(cat); len(skills) > 0 {
			data.Groups = append(data.Groups, skillGroup{Category: cat, Skills: skills})
		}
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to render landing page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.content.Profile)
}

// handleProjects lists projects. ?featured=true limits the list to
// featured ones.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects := s.content.Projects
	if v := r.URL.Query().Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid featured flag"})
			return
		}
		if featured {
			projects = s.content.FeaturedProjects()
		}
	}
	if projects == nil {
		projects = []portfolio.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// handleSkills lists skills, optionally filtered by ?category=.
func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	skills := s.content.Skills
	if v := r.URL.Query().Get("category"); v != "" {
		skills = s.content.SkillsByCategory(portfolio.Category(v))
	}
	if skills == nil {
		skills = []portfolio.Skill{}
	}
	writeJSON(w, http.StatusOK, skills)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
