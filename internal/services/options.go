package services

import (
	"go.mongodb.org/mongo-driver/mongo/options"
)

// afterUpdate makes FindOneAndUpdate return the post-update document.
func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
