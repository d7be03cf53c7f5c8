package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pathfinder/middleware"
	"pathfinder/models"
	"pathfinder/store"
	"pathfinder/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Dashboard serves the organization pages that follow onboarding. Images may
// be nil when object storage is not configured.
type Dashboard struct {
	Announcements store.AnnouncementStore
	Vehicles      store.VehicleStore
	Images        store.ImageStore
}

// organizationID scopes a request: the web user's organization, or the
// throwaway organization of a demo session.
func organizationID(c *gin.Context) (string, bool) {
	if user, ok := middleware.CurrentWebUser(c); ok && user.OrganizationID != "" {
		return user.OrganizationID, true
	}
	if c.GetBool(middleware.DemoKey) {
		return "demo-" + c.GetString(middleware.OwnerIDKey), true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "No organization linked to this account"})
	return "", false
}

func pageFromQuery(c *gin.Context) store.Page {
	number, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(store.DefaultPageLimit)), 10, 64)
	return store.NewPage(number, limit)
}

func (d *Dashboard) ListAnnouncements(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}
	page := pageFromQuery(c)

	announcements, total, err := d.Announcements.ListAnnouncements(c.Request.Context(), orgID, strings.TrimSpace(c.Query("search")), page)
	if err != nil {
		utils.Log.Error("failed to list announcements", zap.String("organization_id", orgID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve announcements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"announcements": announcements,
		"total":         total,
		"page":          page.Number,
		"limit":         page.Limit,
	})
}

// CreateAnnouncement accepts a multipart form with title, body and an
// optional image.
func (d *Dashboard) CreateAnnouncement(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}

	announcement := models.Announcement{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Title:          strings.TrimSpace(c.PostForm("title")),
		Body:           strings.TrimSpace(c.PostForm("body")),
		CreatedBy:      c.GetString(middleware.OwnerIDKey),
		CreatedAt:      time.Now(),
	}
	if announcement.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	file, err := c.FormFile("image")
	if err == nil {
		if d.Images == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image uploads are disabled"})
			return
		}
		mainURL, previewURL, err := d.Images.SaveImage(c.Request.Context(), file, "announcements/"+announcement.ID.Hex())
		if err != nil {
			if errors.Is(err, store.ErrImageTooLarge) || errors.Is(err, store.ErrUnsupportedType) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			utils.Log.Error("failed to upload announcement image", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload image"})
			return
		}
		announcement.ImageURL = mainURL
		announcement.PreviewURL = previewURL
	}

	if err := d.Announcements.InsertAnnouncement(c.Request.Context(), &announcement); err != nil {
		utils.Log.Error("failed to create announcement", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Announcement created successfully", "announcement": announcement})
}

// DeleteAnnouncement removes the announcement and its stored images.
func (d *Dashboard) DeleteAnnouncement(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement ID"})
		return
	}

	announcement, err := d.Announcements.FindAnnouncement(c.Request.Context(), orgID, objID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve announcement"})
		return
	}

	if d.Images != nil {
		for _, url := range []string{announcement.ImageURL, announcement.PreviewURL} {
			if url == "" {
				continue
			}
			if err := d.Images.RemoveImage(c.Request.Context(), url); err != nil {
				utils.Log.Warn("failed to remove announcement image", zap.String("url", url), zap.Error(err))
			}
		}
	}

	if err := d.Announcements.DeleteAnnouncement(c.Request.Context(), orgID, objID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete announcement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted successfully"})
}

func (d *Dashboard) ListVehicles(c *gin.Context) {
	orgID, ok := organizationID(c)
	if !ok {
		return
	}
	page := pageFromQuery(c)

	vehicles, total, err := d.Vehicles.ListVehicles(c.Request.Context(), orgID, page)
	if err != nil {
		utils.Log.Error("failed to list vehicles", zap.String("organization_id", orgID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vehicles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"total":    total,
		"page":     page.Number,
		"limit":    page.Limit,
	})
}
