package initializers

import (
	"log"
	"os"

	"github.com/filedrop/dataroom-backend/storage"
)

var Store *storage.DiskStore

// InitStorage resolves the media root and prepares the disk store.
// Uploaded bytes live under <MEDIA_ROOT>/uploads/<endpointId>/.
func InitStorage() {
	root := os.Getenv("MEDIA_ROOT")
	if root == "" {
		root = "media"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		log.Fatalf("❌ Failed to create media root %s: %v", root, err)
	}
	Store = storage.NewDiskStore(root)
	log.Printf("✅ Media root ready at %s", root)
}
