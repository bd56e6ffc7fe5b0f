package favorites

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testGatewayContract runs the behaviour every Gateway must share.
func testGatewayContract(t *testing.T, gw Gateway) {
	t.Helper()
	ctx := context.Background()
	owner := fmt.Sprintf("owner-%d", time.Now().UnixNano())
	other := owner + "-other"

	idea := ramen
	idea.Timestamp = "2024-03-01T12:00:00.000Z"
	saved, err := gw.Save(ctx, owner, idea)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" || !saved.IsFavorite {
		t.Fatalf("saved = %+v", saved)
	}

	favs, err := gw.List(ctx, owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(favs) != 1 || favs[0].ID != saved.ID || favs[0].Title != idea.Title || favs[0].Timestamp != idea.Timestamp {
		t.Fatalf("List = %+v", favs)
	}

	if err := gw.Remove(ctx, other, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign Remove err = %v, want ErrNotFound", err)
	}
	if err := gw.Remove(ctx, owner, saved.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := gw.Remove(ctx, owner, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove err = %v, want ErrNotFound", err)
	}

	favs, err = gw.List(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(favs) != 0 {
		t.Errorf("List after remove = %+v", favs)
	}
}

func TestMemGatewayContract(t *testing.T) {
	testGatewayContract(t, newMemGateway())
}

func TestMongoGateway(t *testing.T) {
	uri := os.Getenv("IDEAGEN_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("IDEAGEN_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database("ideagen_test")
	gw := NewMongoGateway(db, "favorites")
	if err := gw.EnsureIndexes(ctx); err != nil {
		t.Fatal(err)
	}
	testGatewayContract(t, gw)

	if err := gw.Remove(ctx, "x", "not-an-object-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("malformed id err = %v, want ErrNotFound", err)
	}
}

func TestFirestoreGateway(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "ideagen-test")
	if err != nil {
		t.Fatalf("firestore client: %v", err)
	}
	defer client.Close()

	testGatewayContract(t, NewFirestoreGateway(client, "favorites"))
}

var _ Gateway = (*MongoGateway)(nil)
var _ Gateway = (*FirestoreGateway)(nil)
var _ Gateway = (*memGateway)(nil)
