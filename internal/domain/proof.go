package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerProof is an evidentiary record submitted by a participant toward
// the 10-customer quota. The payment document itself resides in object
// storage; only its key and original name are kept here.
type CustomerProof struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	CustomerName string             `bson:"customerName" json:"customerName"`
	PaymentDate  time.Time          `bson:"paymentDate" json:"paymentDate"`
	Amount       float64            `bson:"amount" json:"amount"`
	ObjectKey    string             `bson:"objectKey" json:"-"` // Key in the object storage bucket - internal use
	DocumentName string             `bson:"documentName" json:"documentName"`
	ContentType  string             `bson:"contentType" json:"contentType"`
	Size         int64              `bson:"size" json:"size"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
