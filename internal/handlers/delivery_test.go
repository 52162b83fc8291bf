package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend/internal/models"
)

func seedDeliveryPartner(t *testing.T, db *gorm.DB, email string) models.DeliveryPartner {
	t.Helper()
	user := models.User{Email: email, Role: models.RoleDelivery, IsVerified: true}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	partner := models.DeliveryPartner{UserID: user.ID, FullName: "Rider", IsVerified: true, IsActive: true}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatal(err)
	}
	return partner
}

func newDeliveryRouter(db *gorm.DB, userID uint) *gin.Engine {
	r := gin.New()
	grp := r.Group("/api/delivery", asUser(userID))
	grp.POST("/assignments/:id/accept", AcceptAssignment(db))
	grp.POST("/assignments/:id/complete", CompleteDelivery(db))
	return r
}

// Two partners race for one order; the conditional claim lets exactly
// one of them win.
func TestAcceptAssignmentSingleWinner(t *testing.T) {
	db := newTestDB(t)

	customer := models.User{Email: "cust@example.com", IsVerified: true}
	customer.SetPassword("secret123")
	db.Create(&customer)

	order := models.Order{
		UserID:         customer.ID,
		Status:         models.StatusShipped,
		DeliveryStatus: models.DeliveryPending,
		TotalAmount:    500,
		FinalAmount:    500,
	}
	db.Create(&order)

	first := seedDeliveryPartner(t, db, "rider1@example.com")
	second := seedDeliveryPartner(t, db, "rider2@example.com")

	path := fmt.Sprintf("/api/delivery/assignments/%d/accept", order.ID)

	w := doJSON(t, newDeliveryRouter(db, first.UserID), http.MethodPost, path, nil)
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, newDeliveryRouter(db, second.UserID), http.MethodPost, path, nil)
	wantStatus(t, w, http.StatusConflict)

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	if reloaded.DeliveryPartnerID == nil || *reloaded.DeliveryPartnerID != first.ID {
		t.Fatalf("order assigned to %v, want partner %d", reloaded.DeliveryPartnerID, first.ID)
	}
	if reloaded.DeliveryStatus != models.DeliveryOutFor {
		t.Fatalf("delivery_status = %q, want %q", reloaded.DeliveryStatus, models.DeliveryOutFor)
	}
}

func TestCompleteDeliveryRequiresOwnClaim(t *testing.T) {
	db := newTestDB(t)

	customer := models.User{Email: "cust2@example.com", IsVerified: true}
	customer.SetPassword("secret123")
	db.Create(&customer)

	owner := seedDeliveryPartner(t, db, "owner@example.com")
	intruder := seedDeliveryPartner(t, db, "intruder@example.com")

	ownerID := owner.ID
	order := models.Order{
		UserID:            customer.ID,
		Status:            models.StatusShipped,
		DeliveryStatus:    models.DeliveryOutFor,
		DeliveryPartnerID: &ownerID,
		TotalAmount:       300,
		FinalAmount:       300,
	}
	db.Create(&order)

	path := fmt.Sprintf("/api/delivery/assignments/%d/complete", order.ID)

	w := doJSON(t, newDeliveryRouter(db, intruder.UserID), http.MethodPost, path, nil)
	wantStatus(t, w, http.StatusNotFound)

	w = doJSON(t, newDeliveryRouter(db, owner.UserID), http.MethodPost, path, nil)
	wantStatus(t, w, http.StatusOK)

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	if reloaded.Status != models.StatusDelivered || reloaded.DeliveryStatus != models.DeliveryDone {
		t.Fatalf("order = (%s, %s), want Delivered/Delivered", reloaded.Status, reloaded.DeliveryStatus)
	}
}
