package store

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestRedisStoreParsesURLAndAddr(t *testing.T) {
	logger, _ := test.NewNullLogger()

	s := NewRedisStore("redis://localhost:6380/2", logger)
	defer s.Close()
	if opts := s.client.Options(); opts.Addr != "localhost:6380" || opts.DB != 2 {
		t.Fatalf("unexpected options from url: addr=%s db=%d", opts.Addr, opts.DB)
	}

	s2 := NewRedisStore("cache:6379", logger)
	defer s2.Close()
	if opts := s2.client.Options(); opts.Addr != "cache:6379" {
		t.Fatalf("unexpected addr %s", opts.Addr)
	}
}

func TestRedisStoreInitializeGivesUp(t *testing.T) {
	logger, hook := test.NewNullLogger()
	// nothing listens on port 1
	s := NewRedisStore("127.0.0.1:1", logger)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Initialize(ctx, 1); err == nil {
		t.Fatalf("expected Initialize to fail")
	}
	if len(hook.AllEntries()) == 0 {
		t.Fatalf("expected failed ping to be logged")
	}
}

func newMiniRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	logger, _ := test.NewNullLogger()
	s := NewRedisStore(mr.Addr(), logger)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStoreSeedKeepsExistingRows(t *testing.T) {
	s, _ := newMiniRedisStore(t)
	ctx := context.Background()

	if err := s.SeedInventory(ctx, []InventoryRow{{ID: 2, Content: "orange"}, {ID: 1, Content: "apple"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.SeedInventory(ctx, []InventoryRow{{ID: 1, Content: "pear"}, {ID: 3, Content: "banana"}}); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	got, err := s.ListInventory(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []InventoryRow{{ID: 1, Content: "apple"}, {ID: 2, Content: "orange"}, {ID: 3, Content: "banana"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRedisStoreCartLifecycle(t *testing.T) {
	s, _ := newMiniRedisStore(t)
	ctx := context.Background()

	cart, err := s.ListCart(ctx)
	if err != nil || len(cart) != 0 {
		t.Fatalf("expected empty cart, got %+v err=%v", cart, err)
	}

	if _, err := s.AddCartItem(ctx, CartRow{ID: 3, Content: "banana", Amount: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.AddCartItem(ctx, CartRow{ID: 1, Content: "apple", Amount: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	row, err := s.AddCartItem(ctx, CartRow{ID: 1, Content: "apple", Amount: 3})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if row != (CartRow{ID: 1, Content: "apple", Amount: 5}) {
		t.Fatalf("expected amounts to add up, got %+v", row)
	}

	row, err = s.UpdateCartAmount(ctx, 3, 7)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if row != (CartRow{ID: 3, Content: "banana", Amount: 7}) {
		t.Fatalf("unexpected updated row %+v", row)
	}

	cart, err = s.ListCart(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []CartRow{{ID: 1, Content: "apple", Amount: 5}, {ID: 3, Content: "banana", Amount: 7}}
	if !reflect.DeepEqual(cart, want) {
		t.Fatalf("got %+v, want %+v", cart, want)
	}

	row, err = s.DeleteCartItem(ctx, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if row.ID != 1 || row.Amount != 5 {
		t.Fatalf("expected deleted row back, got %+v", row)
	}
	cart, _ = s.ListCart(ctx)
	if len(cart) != 1 || cart[0].ID != 3 {
		t.Fatalf("unexpected cart after delete %+v", cart)
	}
}

func TestRedisStoreMissingLineIsNotFound(t *testing.T) {
	s, _ := newMiniRedisStore(t)
	ctx := context.Background()

	if _, err := s.UpdateCartAmount(ctx, 9, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if _, err := s.DeleteCartItem(ctx, 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
	if _, err := s.AddCartItem(ctx, CartRow{ID: 9, Content: "grape"}); err == nil {
		t.Fatalf("expected zero amount to be rejected")
	}
}

func TestRedisStoreConcurrentWrites(t *testing.T) {
	s, _ := newMiniRedisStore(t)
	ctx := context.Background()

	for id := int64(1); id <= 4; id++ {
		if _, err := s.AddCartItem(ctx, CartRow{ID: id, Content: "item", Amount: 1}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	const adders = 20
	var wg sync.WaitGroup
	errs := make(chan error, adders+3)
	for i := 0; i < adders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddCartItem(ctx, CartRow{ID: 2, Content: "item", Amount: 1})
			errs <- err
		}()
	}
	for _, id := range []int64{1, 3, 4} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := s.DeleteCartItem(ctx, id)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent write failed: %v", err)
		}
	}

	cart, err := s.ListCart(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []CartRow{{ID: 2, Content: "item", Amount: adders + 1}}
	if !reflect.DeepEqual(cart, want) {
		t.Fatalf("got %+v, want %+v", cart, want)
	}
}
