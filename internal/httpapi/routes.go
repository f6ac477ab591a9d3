package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avgjoe1017/findable-v1-sub000/internal/catalog"
	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// Server bundles the question-service routes with the JWT secret used to
// gate them.
type Server struct {
	secret []byte
}

// NewServer builds a Server gated by secret.
func NewServer(secret []byte) *Server {
	return &Server{secret: secret}
}

// Register mounts every question-service route onto r under
// RequireAuth.
func (s *Server) Register(r *gin.Engine) {
	grp := r.Group("/questions", RequireAuth(s.secret))
	grp.GET("/universal", s.listUniversal)
	grp.GET("/universal/:id", s.getUniversal)
	grp.GET("/stats", s.stats)
	grp.POST("/generate", s.generate)
	grp.GET("/categories", s.categories)
	grp.GET("/difficulties", s.difficulties)
}

// listUniversal implements GET /questions/universal, filterable by
// category/difficulty query params.
func (s *Server) listUniversal(c *gin.Context) {
	questions := catalog.Universal()
	if cat := c.Query("category"); cat != "" {
		questions = filterCategory(questions, models.Category(cat))
	}
	if diff := c.Query("difficulty"); diff != "" {
		questions = filterDifficulty(questions, models.Difficulty(diff))
	}
	Respond(c, http.StatusOK, "ok", questions)
}

// getUniversal implements GET /questions/universal/{id}.
func (s *Server) getUniversal(c *gin.Context) {
	q, ok := catalog.ByID(c.Param("id"))
	if !ok {
		Respond(c, http.StatusNotFound, "question not found", nil)
		return
	}
	Respond(c, http.StatusOK, "ok", q)
}

// stats implements GET /questions/stats: counts by category and difficulty
// plus the fixed total weight.
func (s *Server) stats(c *gin.Context) {
	byCategory := make(map[models.Category]int)
	byDifficulty := make(map[models.Difficulty]int)
	for _, q := range catalog.Universal() {
		byCategory[q.Category]++
		byDifficulty[q.Difficulty]++
	}
	Respond(c, http.StatusOK, "ok", gin.H{
		"total":        len(catalog.Universal()),
		"by_category":   byCategory,
		"by_difficulty": byDifficulty,
		"total_weight":  catalog.TotalWeight(),
	})
}

// generateRequest binds the query params for POST /questions/generate.
type generateRequest struct {
	CompanyName     string   `form:"company_name" binding:"required"`
	Domain          string   `form:"domain" binding:"required"`
	Title           string   `form:"title"`
	Description     string   `form:"description"`
	SchemaTypes     []string `form:"schema_types"`
	IncludeDerived  bool     `form:"include_derived"`
}

// generate implements POST /questions/generate.
func (s *Server) generate(c *gin.Context) {
	var req generateRequest
	req.IncludeDerived = true // default true
	if err := c.ShouldBindQuery(&req); err != nil {
		Respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	schemaTypes := make(map[string]struct{}, len(req.SchemaTypes))
	for _, t := range req.SchemaTypes {
		schemaTypes[t] = struct{}{}
	}

	ctx := models.SiteContext{
		CompanyName: req.CompanyName,
		Domain:      req.Domain,
		Title:       req.Title,
		Description: req.Description,
		SchemaTypes: schemaTypes,
	}

	set := catalog.GenerateForSite(ctx, catalog.DefaultOptions())
	if !req.IncludeDerived {
		set.Derived = nil
	}
	Respond(c, http.StatusOK, "ok", set)
}

// categories implements GET /questions/categories.
func (s *Server) categories(c *gin.Context) {
	Respond(c, http.StatusOK, "ok", []models.Category{
		models.CategoryIdentity,
		models.CategoryOfferings,
		models.CategoryContact,
		models.CategoryTrust,
		models.CategoryDifferentiation,
	})
}

// difficulties implements GET /questions/difficulties.
func (s *Server) difficulties(c *gin.Context) {
	Respond(c, http.StatusOK, "ok", []models.Difficulty{
		models.DifficultyEasy,
		models.DifficultyMedium,
		models.DifficultyHard,
	})
}

func filterCategory(qs []models.Question, cat models.Category) []models.Question {
	var out []models.Question
	for _, q := range qs {
		if q.Category == cat {
			out = append(out, q)
		}
	}
	return out
}

func filterDifficulty(qs []models.Question, diff models.Difficulty) []models.Question {
	var out []models.Question
	for _, q := range qs {
		if q.Difficulty == diff {
			out = append(out, q)
		}
	}
	return out
}
