package entity

import (
	"time"

	"storefront-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoCustomizationDoc is the design placement stored on an order item
type MongoCustomizationDoc struct {
	DesignID       string  `bson:"designId,omitempty"`
	DesignImage    string  `bson:"designImage,omitempty"`
	PositionX      float64 `bson:"positionX"`
	PositionY      float64 `bson:"positionY"`
	Size           int     `bson:"size"`
	Text           string  `bson:"text,omitempty"`
	PreviewImage   string  `bson:"previewImage,omitempty"`
	CompositeImage string  `bson:"compositeImage,omitempty"`
}

// MongoOrderItemDoc is a line item snapshot
type MongoOrderItemDoc struct {
	ProductID     string                 `bson:"productId"`
	Name          string                 `bson:"name"`
	Slug          string                 `bson:"slug,omitempty"`
	Price         float64                `bson:"price"`
	Quantity      int                    `bson:"quantity"`
	Size          string                 `bson:"size,omitempty"`
	Color         string                 `bson:"color,omitempty"`
	Image         string                 `bson:"image,omitempty"`
	Customization *MongoCustomizationDoc `bson:"customization,omitempty"`
}

// MongoNotificationDoc is the email bookkeeping of an order
type MongoNotificationDoc struct {
	CustomerEmailSent bool       `bson:"customerEmailSent"`
	AdminEmailSent    bool       `bson:"adminEmailSent"`
	Attempts          int        `bson:"attempts"`
	LastAttemptAt     *time.Time `bson:"lastAttemptAt,omitempty"`
	LastError         string     `bson:"lastError,omitempty"`
}

// MongoOrderDoc represents an order in MongoDB
type MongoOrderDoc struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	OrderNumber       string               `bson:"orderNumber"`
	UserID            string               `bson:"userId,omitempty"`
	Items             []MongoOrderItemDoc  `bson:"items"`
	CustomerName      string               `bson:"customerName"`
	CustomerEmail     string               `bson:"customerEmail"`
	CustomerPhone     string               `bson:"customerPhone"`
	ShippingAddress   MongoAddressDoc      `bson:"shippingAddress"`
	Subtotal          float64              `bson:"subtotal"`
	CustomizationFee  float64              `bson:"customizationFee"`
	Shipping          float64              `bson:"shipping"`
	Total             float64              `bson:"total"`
	PaymentMethod     string               `bson:"paymentMethod"`
	PaymentStatus     string               `bson:"paymentStatus"`
	Status            string               `bson:"status"`
	RazorpayOrderID   string               `bson:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string               `bson:"razorpayPaymentId,omitempty"`
	RazorpaySignature string               `bson:"razorpaySignature,omitempty"`
	Notes             string               `bson:"notes,omitempty"`
	Notifications     MongoNotificationDoc `bson:"notifications"`
	CreatedAt         time.Time            `bson:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt"`
}

// NotificationDocFromDomain converts notification bookkeeping
func NotificationDocFromDomain(n domain.NotificationLog) MongoNotificationDoc {
	return MongoNotificationDoc{
		CustomerEmailSent: n.CustomerEmailSent,
		AdminEmailSent:    n.AdminEmailSent,
		Attempts:          n.Attempts,
		LastAttemptAt:     n.LastAttemptAt,
		LastError:         n.LastError,
	}
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoOrderDoc) ToDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		item := domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Slug:      it.Slug,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
			Image:     it.Image,
		}
		if c := it.Customization; c != nil {
			item.Customization = &domain.Customization{
				DesignID:       c.DesignID,
				DesignImage:    c.DesignImage,
				Position:       domain.Position{X: c.PositionX, Y: c.PositionY},
				Size:           c.Size,
				Text:           c.Text,
				PreviewImage:   c.PreviewImage,
				CompositeImage: c.CompositeImage,
			}
		}
		items = append(items, item)
	}

	return &domain.Order{
		ID:          hexOrEmpty(d.ID),
		OrderNumber: d.OrderNumber,
		UserID:      d.UserID,
		Items:       items,
		Customer: domain.Customer{
			Name:  d.CustomerName,
			Email: d.CustomerEmail,
			Phone: d.CustomerPhone,
		},
		ShippingAddress: addressToDomain(d.ShippingAddress),
		Pricing: domain.Pricing{
			Subtotal:         d.Subtotal,
			CustomizationFee: d.CustomizationFee,
			Shipping:         d.Shipping,
			Total:            d.Total,
		},
		PaymentMethod:     domain.PaymentMethod(d.PaymentMethod),
		PaymentStatus:     domain.PaymentStatus(d.PaymentStatus),
		Status:            domain.OrderStatus(d.Status),
		RazorpayOrderID:   d.RazorpayOrderID,
		RazorpayPaymentID: d.RazorpayPaymentID,
		RazorpaySignature: d.RazorpaySignature,
		Notes:             d.Notes,
		Notifications: domain.NotificationLog{
			CustomerEmailSent: d.Notifications.CustomerEmailSent,
			AdminEmailSent:    d.Notifications.AdminEmailSent,
			Attempts:          d.Notifications.Attempts,
			LastAttemptAt:     d.Notifications.LastAttemptAt,
			LastError:         d.Notifications.LastError,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoOrderDocFromDomain converts a domain entity to a MongoDB document
func MongoOrderDocFromDomain(o *domain.Order) *MongoOrderDoc {
	items := make([]MongoOrderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		item := MongoOrderItemDoc{
			ProductID: it.ProductID,
			Name:      it.Name,
			Slug:      it.Slug,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
			Image:     it.Image,
		}
		if c := it.Customization; c != nil {
			item.Customization = &MongoCustomizationDoc{
				DesignID:       c.DesignID,
				DesignImage:    c.DesignImage,
				PositionX:      c.Position.X,
				PositionY:      c.Position.Y,
				Size:           c.Size,
				Text:           c.Text,
				PreviewImage:   c.PreviewImage,
				CompositeImage: c.CompositeImage,
			}
		}
		items = append(items, item)
	}

	return &MongoOrderDoc{
		ID:                objectIDFromHex(o.ID),
		OrderNumber:       o.OrderNumber,
		UserID:            o.UserID,
		Items:             items,
		CustomerName:      o.Customer.Name,
		CustomerEmail:     o.Customer.Email,
		CustomerPhone:     o.Customer.Phone,
		ShippingAddress:   addressFromDomain(o.ShippingAddress),
		Subtotal:          o.Pricing.Subtotal,
		CustomizationFee:  o.Pricing.CustomizationFee,
		Shipping:          o.Pricing.Shipping,
		Total:             o.Pricing.Total,
		PaymentMethod:     string(o.PaymentMethod),
		PaymentStatus:     string(o.PaymentStatus),
		Status:            string(o.Status),
		RazorpayOrderID:   o.RazorpayOrderID,
		RazorpayPaymentID: o.RazorpayPaymentID,
		RazorpaySignature: o.RazorpaySignature,
		Notes:             o.Notes,
		Notifications:     NotificationDocFromDomain(o.Notifications),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}
