package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opencatalog/metagraph/internal/config"
	"github.com/opencatalog/metagraph/internal/driver"
	"github.com/opencatalog/metagraph/internal/model"
	"github.com/opencatalog/metagraph/internal/proxy"
)

type Server struct {
	Proxy proxy.Proxy
	Cfg   *config.Config
	Log   *zap.Logger
}

// NewServer wires a server from config plus environment overrides. The
// backing proxy is constructed once and shared across requests.
func NewServer(log *zap.Logger) (*Server, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Warn("no config file loaded, using defaults", zap.String("path", cfgPath), zap.Error(err))
		cfg = config.Default()
	}

	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		cfg.Graph.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		cfg.Graph.User = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		cfg.Graph.Password = pass
	}
	if backend := os.Getenv("PROXY_BACKEND"); backend != "" {
		cfg.Proxy.Backend = backend
	}

	p, err := buildProxy(cfg, log)
	if err != nil {
		return nil, err
	}

	return New(p, cfg, log), nil
}

// New is the dependency-injected constructor used by NewServer and tests.
func New(p proxy.Proxy, cfg *config.Config, log *zap.Logger) *Server {
	return &Server{Proxy: p, Cfg: cfg, Log: log}
}

func buildProxy(cfg *config.Config, log *zap.Logger) (proxy.Proxy, error) {
	switch cfg.Proxy.Backend {
	case "memory":
		return proxy.NewMemoryProxy(), nil
	case "neo4j", "":
		d, err := driver.NewNeo4jDriver(cfg.Graph.URI, cfg.Graph.User, cfg.Graph.Password, log)
		if err != nil {
			return nil, err
		}
		if err := d.BuildIndices(context.Background()); err != nil {
			return nil, err
		}
		return proxy.NewGraphProxy(d, log), nil
	}
	return nil, errors.New("unknown proxy backend " + cfg.Proxy.Backend)
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	// Table URIs arrive percent-encoded in path segments; match on the raw
	// path so the embedded slashes survive routing.
	r.UseRawPath = true
	r.UnescapePathValues = true

	r.Use(gin.Recovery(), RequestID(), RequestLogger(s.Log))

	r.GET("/healthcheck", s.Healthcheck)

	r.GET("/users", s.GetUsers)
	r.GET("/users/:user_id", s.GetUser)
	r.GET("/users/:user_id/follow", s.relatedTables(model.RelationFollow))
	r.PUT("/users/:user_id/follow/:table_uri", s.addRelation(model.RelationFollow))
	r.DELETE("/users/:user_id/follow/:table_uri", s.deleteRelation(model.RelationFollow))
	r.GET("/users/:user_id/own", s.relatedTables(model.RelationOwn))
	r.PUT("/users/:user_id/own/:table_uri", s.addRelation(model.RelationOwn))
	r.DELETE("/users/:user_id/own/:table_uri", s.deleteRelation(model.RelationOwn))
	r.GET("/users/:user_id/read", s.GetFrequentlyRead)
	r.PUT("/users/:user_id/read/:table_uri", s.RecordRead)

	r.GET("/tables/:table_uri", s.GetTable)
	r.GET("/tables/:table_uri/description", s.GetTableDescription)
	r.PUT("/tables/:table_uri/description", s.PutTableDescription)
	r.PUT("/tables/:table_uri/tags/:tag", s.AddTag)
	r.DELETE("/tables/:table_uri/tags/:tag", s.DeleteTag)
	r.GET("/tables/:table_uri/columns/:column_name/description", s.GetColumnDescription)
	r.PUT("/tables/:table_uri/columns/:column_name/description", s.PutColumnDescription)

	r.GET("/tags", s.GetTags)
	r.GET("/popular_tables", s.GetPopularTables)
	r.GET("/latest_updated_ts", s.GetLatestUpdatedTs)

	return r
}

func (s *Server) Healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetUser(c *gin.Context) {
	user, err := s.Proxy.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) GetUsers(c *gin.Context) {
	users, err := s.Proxy.GetUsers(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) GetTable(c *gin.Context) {
	table, err := s.Proxy.GetTable(c.Request.Context(), c.Param("table_uri"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (s *Server) relatedTables(relType model.RelationType) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables, err := s.Proxy.GetTablesByUserRelation(c.Request.Context(), c.Param("user_id"), relType)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"table": tables})
	}
}

func (s *Server) addRelation(relType model.RelationType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, tableURI := c.Param("user_id"), c.Param("table_uri")
		if err := s.Proxy.AddRelation(c.Request.Context(), userID, tableURI, relType); err != nil {
			s.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "The " + string(relType) + " relation for user " + userID +
				" and table " + tableURI + " is added successfully",
		})
	}
}

func (s *Server) deleteRelation(relType model.RelationType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, tableURI := c.Param("user_id"), c.Param("table_uri")
		if err := s.Proxy.DeleteRelation(c.Request.Context(), userID, tableURI, relType); err != nil {
			s.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "The " + string(relType) + " relation for user " + userID +
				" and table " + tableURI + " is deleted successfully",
		})
	}
}

func (s *Server) GetFrequentlyRead(c *gin.Context) {
	limit := proxy.DefaultReadsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be an integer"})
			return
		}
		limit = n
	}

	reads, err := s.Proxy.GetFrequentlyReadTables(c.Request.Context(), c.Param("user_id"), limit)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": reads})
}

func (s *Server) RecordRead(c *gin.Context) {
	userID, tableURI := c.Param("user_id"), c.Param("table_uri")
	if err := s.Proxy.RecordTableRead(c.Request.Context(), userID, tableURI); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "The read of table " + tableURI + " by user " + userID + " is recorded successfully",
	})
}

type tagRequest struct {
	TagType string `json:"tag_type"`
}

func (s *Server) AddTag(c *gin.Context) {
	var req tagRequest
	// Body is optional; the tag type defaults when absent.
	_ = c.ShouldBindJSON(&req)

	tableURI, tag := c.Param("table_uri"), c.Param("tag")
	if err := s.Proxy.AddTag(c.Request.Context(), tableURI, tag, req.TagType); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "The tag " + tag + " for table " + tableURI + " is added successfully",
	})
}

func (s *Server) DeleteTag(c *gin.Context) {
	var req tagRequest
	_ = c.ShouldBindJSON(&req)

	tableURI, tag := c.Param("table_uri"), c.Param("tag")
	if err := s.Proxy.DeleteTag(c.Request.Context(), tableURI, tag, req.TagType); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "The tag " + tag + " for table " + tableURI + " is deleted successfully",
	})
}

func (s *Server) GetTags(c *gin.Context) {
	tags, err := s.Proxy.GetTags(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag_usages": tags})
}

type descriptionRequest struct {
	Description string `json:"description" binding:"required"`
}

func (s *Server) GetTableDescription(c *gin.Context) {
	description, err := s.Proxy.GetTableDescription(c.Request.Context(), c.Param("table_uri"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": description})
}

func (s *Server) PutTableDescription(c *gin.Context) {
	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "description field is required"})
		return
	}

	if err := s.Proxy.PutTableDescription(c.Request.Context(), c.Param("table_uri"), req.Description); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The description is added successfully"})
}

func (s *Server) GetColumnDescription(c *gin.Context) {
	description, err := s.Proxy.GetColumnDescription(c.Request.Context(), c.Param("table_uri"), c.Param("column_name"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": description})
}

func (s *Server) PutColumnDescription(c *gin.Context) {
	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "description field is required"})
		return
	}

	if err := s.Proxy.PutColumnDescription(c.Request.Context(), c.Param("table_uri"), c.Param("column_name"), req.Description); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The description is added successfully"})
}

func (s *Server) GetPopularTables(c *gin.Context) {
	limit := s.Cfg.Proxy.PopularTablesLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be an integer"})
			return
		}
		limit = n
	}

	tables, err := s.Proxy.GetPopularTables(c.Request.Context(), limit)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"popular_tables": tables})
}

func (s *Server) GetLatestUpdatedTs(c *gin.Context) {
	ts, err := s.Proxy.GetLatestUpdatedTs(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"neo4j_latest_timestamp": ts})
}

// abortWithError is the single place the proxy error taxonomy turns into
// HTTP status codes.
func (s *Server) abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, proxy.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, proxy.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		s.Log.Error("request failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error!"})
	}
}
