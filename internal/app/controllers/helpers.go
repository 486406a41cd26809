package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/middleware"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

// currentUserID returns the authenticated user's id or answers 401
func currentUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.RespondUnauthorized(ctx)
		return 0, false
	}
	return userID, true
}

// parseMessagePage reads the limit and before query parameters
func parseMessagePage(ctx *gin.Context) (models.MessagePage, bool) {
	page := models.MessagePage{Limit: defaultMessageLimit}

	if limitStr := ctx.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			badQuery(ctx, "limit", "limit must be a positive number")
			return page, false
		}
		if limit > maxMessageLimit {
			limit = maxMessageLimit
		}
		page.Limit = limit
	}

	if beforeStr := ctx.Query("before"); beforeStr != "" {
		before, err := time.Parse(time.RFC3339, beforeStr)
		if err != nil {
			badQuery(ctx, "before", "before must be an RFC3339 timestamp")
			return page, false
		}
		page.Before = &before
	}
	return page, true
}

// queryList collects a repeated or comma separated query parameter
func queryList(ctx *gin.Context, key string) []string {
	var out []string
	for _, raw := range ctx.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func badQuery(ctx *gin.Context, field, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameter").
		WithField(field).
		WithDetails(details)
	ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// formFile reads a required multipart file field
func formFile(ctx *gin.Context, field string) (*multipart.FileHeader, bool) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required").
			WithField(field).
			WithDetails("Send the file as multipart form field '" + field + "'")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return fh, true
}
