package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigmarket-backend/internal/http/middleware"
)

func TestBidHandler_Hire_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BidHandler{}
	r.PATCH("/bids/:bidId/hire", handler.Hire)

	req, _ := http.NewRequest("PATCH", "/bids/7b7f8c3e-2f41-4c25-9fb0-1f62f2f3a111/hire", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBidHandler_Hire_InvalidBidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BidHandler{}
	r.PATCH("/bids/:bidId/hire", middleware.UUIDValidator("bidId"), handler.Hire)

	req, _ := http.NewRequest("PATCH", "/bids/invalid-uuid/hire", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBidHandler_Submit_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BidHandler{}
	r.POST("/bids", handler.Submit)

	req, _ := http.NewRequest("POST", "/bids", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBidHandler_Withdraw_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BidHandler{}
	r.DELETE("/bids/:bidId", handler.Withdraw)

	req, _ := http.NewRequest("DELETE", "/bids/7b7f8c3e-2f41-4c25-9fb0-1f62f2f3a111", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBidHandler_ListForGig_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BidHandler{}
	r.GET("/bids/:gigId", handler.ListForGig)

	req, _ := http.NewRequest("GET", "/bids/7b7f8c3e-2f41-4c25-9fb0-1f62f2f3a111", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
