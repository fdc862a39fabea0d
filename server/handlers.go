package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallyops/advicenorm/advice"
	"github.com/tallyops/advicenorm/enrich"
	"github.com/tallyops/advicenorm/normalize"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.version,
		"commit":  s.commitSHA,
	})
}

func (s *Server) handleGroups(c *gin.Context) {
	groups := make([]string, 0, len(advice.Groups()))
	for _, g := range advice.Groups() {
		groups = append(groups, g.String())
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// handleNormalize accepts one extraction payload and responds with the
// stamped result. A ?group= query parameter overrides the payload's group
// identifier; unresolvable groups still succeed with an empty line list, so
// the caller can distinguish "nothing to post" from a hard failure.
func (s *Server) handleNormalize(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	extractions, err := s.loader.LoadBytes(c.Request.Context(), "request", body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	extraction := extractions[0]

	group := s.cfg.ResolveGroup(extraction.Group)
	if override := c.Query("group"); override != "" {
		group = advice.ParseVendorGroup(override)
		if group == advice.GroupUnknown {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown vendor group: " + override})
			return
		}
	}

	result, err := normalize.Run(c.Request.Context(), s.registry.Normalizer(group), extraction.Meta, extraction.Rows)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	result.Stamp(extraction.AdviceUUID)

	if s.enricher != nil {
		enriched, err := enrich.Apply(c.Request.Context(), s.enricher, s.cfg.ClientEntityUUID, result.Lines)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "enrichment failed: " + err.Error()})
			return
		}
		result.Lines = enriched
	}

	if err := advice.ValidateLines(result.Lines); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "emitted lines failed validation: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
