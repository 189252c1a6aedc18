package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// objectIDFromHex returns the zero ObjectID for empty or malformed ids so
// that the driver assigns a fresh one with omitempty.
func objectIDFromHex(id string) primitive.ObjectID {
	if id == "" {
		return primitive.NilObjectID
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objID
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
