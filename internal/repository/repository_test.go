// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repository

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"

	"aurelux/internal/apperr"
	"aurelux/internal/content"
	"aurelux/internal/models"
)

func sampleContent() map[string]any {
	return map[string]any{
		"hero": map[string]any{
			"title":       "Glow Every Day",
			"subtitle":    "Skincare crafted in small batches",
			"videoUrl":    "/uploads/videos/hero.mp4",
			"posterImage": "/assets/poster.jpg",
		},
		"about": map[string]any{
			"title": "About",
			"highlights": []any{
				map[string]any{"value": "10k+", "label": "Customers"},
				map[string]any{"value": "", "label": ""},
			},
		},
		"contact": map[string]any{"email": "hello@aurelux.test", "whatsapp": 628123},
		"brand":   map[string]any{"logoImage": "/logo/aurelux.png", "logoTextPrimary": "AURELUX"},
		"products": []any{
			map[string]any{"id": "prod 1", "name": "Serum", "cardImage": "/uploads/images/serum.jpg"},
			map[string]any{"name": "Toner", "detailImages": []any{"/product/toner-1.jpg"}},
			map[string]any{"id": "#PROD7", "fullName": "Night Cream Deluxe"},
		},
	}
}

func TestIsAllowedMediaURL(t *testing.T) {
	repo := newFixture().repo
	tests := map[string]bool{
		"":                                  true,
		"   ":                               true,
		"/uploads/images/a.jpg":             true,
		"https://cdn.aurelux.test/a.jpg":    true,
		"/assets/hero.mp4":                  true,
		"/product/serum.png":                true,
		"/logo/mark.svg":                    true,
		"https://hotlink.example.com/a.jpg": false,
		"/static/a.jpg":                     false,
	}
	for url, want := range tests {
		if got := repo.IsAllowedMediaURL(url); got != want {
			t.Errorf("IsAllowedMediaURL(%q) = %v, want %v", url, got, want)
		}
	}
}

func TestReadFullContent_Defaults(t *testing.T) {
	f := newFixture()
	got, err := f.repo.ReadFullContent(context.Background())
	if err != nil {
		t.Fatalf("ReadFullContent: %v", err)
	}
	if !reflect.DeepEqual(got, content.DefaultContent()) {
		t.Errorf("ReadFullContent = %+v, want defaults", got)
	}
}

func TestWriteFullContent_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	want := content.NormalizeContent(sampleContent())

	written, err := f.repo.WriteFullContent(ctx, want, "editor@aurelux.test")
	if err != nil {
		t.Fatalf("WriteFullContent: %v", err)
	}
	if !reflect.DeepEqual(written, want) {
		t.Errorf("written = %+v\nwant %+v", written, want)
	}

	got, err := f.repo.ReadFullContent(ctx)
	if err != nil {
		t.Fatalf("ReadFullContent: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("read back = %+v\nwant %+v", got, want)
	}

	ids := []string{"PROD1", "PROD2", "PROD7"}
	for i, id := range ids {
		rec := f.products.records[id]
		if rec.SortOrder != (i+1)*10 || rec.Status != models.ProductStatusPublished || rec.Slug != id {
			t.Errorf("%s stored as %+v", id, rec)
		}
	}
	if f.settings.rec.SchemaVersion != models.SettingsSchemaVersion || f.settings.rec.ID != models.SettingsDocumentID {
		t.Errorf("settings record = %+v", f.settings.rec)
	}
}

func TestWriteFullContent_PreservesCreationAndRemovesStale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.repo.WriteFullContent(ctx, sampleContent(), "first@aurelux.test"); err != nil {
		t.Fatalf("first write: %v", err)
	}
	created := f.products.records["PROD1"].CreatedAt
	settingsCreated := f.settings.rec.CreatedAt

	next := sampleContent()
	next["products"] = []any{
		map[string]any{"id": "PROD7", "name": "Night Cream"},
		map[string]any{"id": "PROD1", "name": "Serum v2"},
	}
	if _, err := f.repo.WriteFullContent(ctx, next, "second@aurelux.test"); err != nil {
		t.Fatalf("second write: %v", err)
	}

	if _, ok := f.products.records["PROD2"]; ok {
		t.Error("PROD2 should have been removed")
	}
	p1 := f.products.records["PROD1"]
	if !p1.CreatedAt.Equal(created) || p1.CreatedBy != "first@aurelux.test" {
		t.Errorf("creation metadata not preserved: %+v", p1.Audit)
	}
	if p1.UpdatedBy != "second@aurelux.test" || p1.SortOrder != 20 || p1.Name != "Serum v2" {
		t.Errorf("PROD1 = %+v", p1)
	}
	if !f.settings.rec.CreatedAt.Equal(settingsCreated) || f.settings.rec.UpdatedBy != "second@aurelux.test" {
		t.Errorf("settings audit = %+v", f.settings.rec.Audit)
	}

	list, _ := f.repo.ListProducts(ctx)
	if len(list) != 2 || list[0].ID != "PROD7" || list[1].ID != "PROD1" {
		t.Errorf("order = %v", list)
	}
}

func TestWriteFullContent_RejectsExternalMediaBeforeWriting(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{
			name: "product card image",
			mutate: func(c map[string]any) {
				c["products"] = []any{map[string]any{"name": "X", "cardImage": "https://hotlink.example.com/x.jpg"}}
			},
			field: "cardImage",
		},
		{
			name: "product detail image",
			mutate: func(c map[string]any) {
				c["products"] = []any{map[string]any{"name": "X", "detailImages": []any{"/uploads/images/a.jpg", "http://evil.test/b.jpg"}}}
			},
			field: "detailImage",
		},
		{
			name:   "hero video",
			mutate: func(c map[string]any) { c["hero"] = map[string]any{"videoUrl": "https://youtube.test/v.mp4"} },
			field:  "hero.videoUrl",
		},
		{
			name:   "brand logo",
			mutate: func(c map[string]any) { c["brand"] = map[string]any{"logoImage": "https://cdn.other.test/logo.png"} },
			field:  "brand.logoImage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			raw := sampleContent()
			tt.mutate(raw)

			_, err := f.repo.WriteFullContent(context.Background(), raw, "a@b.c")
			if !apperr.IsValidation(err) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if len(f.products.records) != 0 || f.settings.writes != 0 || len(f.media.assets) != 0 {
				t.Errorf("state was written despite validation failure")
			}
			if len(f.activity.entries) != 0 {
				t.Errorf("activity recorded for rejected write")
			}
		})
	}
}

func TestWriteFullContent_StorageErrorPropagates(t *testing.T) {
	f := newFixture()
	f.products.failOn = "PROD2"

	_, err := f.repo.WriteFullContent(context.Background(), sampleContent(), "a@b.c")
	if err == nil || apperr.StatusOf(err) != 500 {
		t.Fatalf("err = %v, want untyped storage error", err)
	}
	if f.settings.writes != 0 {
		t.Error("settings must not be written after a failed product upsert")
	}
}

func TestCreateProduct_AllocatesCodes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, name := range []string{"Serum", "Toner", "Cleanser"} {
		if _, _, err := f.repo.CreateProduct(ctx, map[string]any{"name": name, "id": "ignored"}, "a@b.c"); err != nil {
			t.Fatalf("CreateProduct(%s): %v", name, err)
		}
	}
	ids, _ := f.products.IDs(ctx, false)
	if !slices.Equal(ids, []string{"PROD1", "PROD2", "PROD3"}) {
		t.Fatalf("ids = %v", ids)
	}
	if f.products.records["PROD3"].SortOrder != 30 {
		t.Errorf("PROD3 sortOrder = %d, want 30", f.products.records["PROD3"].SortOrder)
	}

	if _, ok, err := f.repo.DeleteProduct(ctx, "PROD2", "a@b.c"); err != nil || !ok {
		t.Fatalf("DeleteProduct = %v, %v", ok, err)
	}

	created, list, err := f.repo.CreateProduct(ctx, map[string]any{"name": "Mask"}, "a@b.c")
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.ID != "PROD4" {
		t.Errorf("new id = %s, want PROD4", created.ID)
	}
	if len(list) != 3 {
		t.Errorf("list has %d products, want 3", len(list))
	}
	if f.products.records["PROD4"].SortOrder != 30 {
		t.Errorf("PROD4 sortOrder = %d, want (2+1)*10", f.products.records["PROD4"].SortOrder)
	}
}

func TestCreateProduct_SkipsIDsOutsideMax(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	// A soft-deleted PROD2 is not counted for the max but still blocks reuse.
	f.products.records["PROD1"] = models.ProductRecord{Product: models.Product{ID: "PROD1", Name: "A"}}
	f.products.records["PROD2"] = models.ProductRecord{Product: models.Product{ID: "PROD2"}, IsDeleted: true}

	created, _, err := f.repo.CreateProduct(ctx, map[string]any{"name": "B"}, "")
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.ID != "PROD3" {
		t.Errorf("id = %s, want PROD3", created.ID)
	}
	if f.products.records["PROD3"].CreatedBy != models.DefaultActor {
		t.Errorf("blank actor stored as %q", f.products.records["PROD3"].CreatedBy)
	}
}

func TestCreateProduct_RetriesOnDuplicateKey(t *testing.T) {
	f := newFixture()
	f.products.raceIDs = []string{"PROD1"}

	created, _, err := f.repo.CreateProduct(context.Background(), map[string]any{"name": "Serum"}, "a@b.c")
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.ID != "PROD2" {
		t.Errorf("id = %s, want PROD2", created.ID)
	}
}

func TestCreateProduct_GivesUpAfterRepeatedRaces(t *testing.T) {
	f := newFixture()
	f.products.raceIDs = []string{"PROD1", "PROD2", "PROD3", "PROD4", "PROD5"}

	_, _, err := f.repo.CreateProduct(context.Background(), map[string]any{"name": "Serum"}, "a@b.c")
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, _, err := f.repo.CreateProduct(ctx, map[string]any{"name": "  "}, "a@b.c"); !apperr.IsValidation(err) {
		t.Errorf("blank name err = %v", err)
	}
	if _, _, err := f.repo.CreateProduct(ctx, map[string]any{"name": "X", "cardImage": "https://x.test/a.png"}, "a@b.c"); !apperr.IsValidation(err) {
		t.Errorf("external image err = %v", err)
	}
	if len(f.products.records) != 0 {
		t.Error("rejected products were stored")
	}
}

func TestUpdateProduct_MergesFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, _, err := f.repo.CreateProduct(ctx, map[string]any{
		"name":         "Serum",
		"usp":          "Brightening",
		"ingredients":  []any{"Niacinamide"},
		"detailImages": []any{"/uploads/images/old.jpg"},
	}, "a@b.c")
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	createdAt := f.products.records[created.ID].CreatedAt

	got, err := f.repo.UpdateProduct(ctx, created.ID, map[string]any{
		"usp":          "Hydrating",
		"id":           "PROD99",
		"detailImages": []any{"/uploads/images/new.jpg"},
	}, "b@b.c")
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if got.ID != created.ID || got.Name != "Serum" || got.USP != "Hydrating" {
		t.Errorf("merged = %+v", got)
	}
	if !slices.Equal(got.Ingredients, []string{"Niacinamide"}) {
		t.Errorf("ingredients = %v", got.Ingredients)
	}
	if !slices.Equal(got.DetailImages, []string{"/uploads/images/new.jpg", "/uploads/images/old.jpg"}) || got.DetailImage != "/uploads/images/new.jpg" {
		t.Errorf("detail images = %v / %q", got.DetailImages, got.DetailImage)
	}

	rec := f.products.records[created.ID]
	if !rec.CreatedAt.Equal(createdAt) || rec.UpdatedBy != "b@b.c" || rec.SortOrder != 10 {
		t.Errorf("stored record = %+v", rec)
	}
	if _, ok := f.products.records["PROD99"]; ok {
		t.Error("payload id must not rename the product")
	}
}

func TestUpdateProduct_GalleryKeepsPreviousLead(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, _, err := f.repo.CreateProduct(ctx, map[string]any{
		"name":         "Toner",
		"detailImages": []any{"/assets/a.jpg", "/assets/b.jpg"},
	}, "a@b.c")
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	got, err := f.repo.UpdateProduct(ctx, created.ID, map[string]any{
		"detailImages": []any{"/assets/c.jpg"},
	}, "a@b.c")
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if want := []string{"/assets/c.jpg", "/assets/a.jpg"}; !slices.Equal(got.DetailImages, want) {
		t.Errorf("detailImages = %v, want %v", got.DetailImages, want)
	}

	got, err = f.repo.UpdateProduct(ctx, created.ID, map[string]any{
		"detailImages": []any{"/assets/d.jpg"},
		"detailImage":  "",
	}, "a@b.c")
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if want := []string{"/assets/d.jpg"}; !slices.Equal(got.DetailImages, want) {
		t.Errorf("detailImages with cleared lead = %v, want %v", got.DetailImages, want)
	}
}

func TestUpdateProduct_Missing(t *testing.T) {
	f := newFixture()
	got, err := f.repo.UpdateProduct(context.Background(), "PROD404", map[string]any{"name": "x"}, "a@b.c")
	if err != nil || got != nil {
		t.Errorf("UpdateProduct = %v, %v; want nil, nil", got, err)
	}
}

func TestUpdateProduct_RejectsExternalMedia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, _, _ := f.repo.CreateProduct(ctx, map[string]any{"name": "Serum"}, "a@b.c")

	_, err := f.repo.UpdateProduct(ctx, created.ID, map[string]any{"cardImage": "https://x.test/a.jpg"}, "a@b.c")
	if !apperr.IsValidation(err) {
		t.Fatalf("err = %v", err)
	}
	if f.products.records[created.ID].CardImage != "" {
		t.Error("rejected update was stored")
	}
}

func TestDeleteProduct_Missing(t *testing.T) {
	f := newFixture()
	list, ok, err := f.repo.DeleteProduct(context.Background(), "PROD1", "a@b.c")
	if err != nil || ok || list != nil {
		t.Errorf("DeleteProduct = %v, %v, %v", list, ok, err)
	}
	if len(f.activity.entries) != 0 {
		t.Error("no activity expected for a no-op delete")
	}
}

func TestUpdateSettings_PartialMerge(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.repo.UpdateSettings(ctx, map[string]any{
		"hero":    map[string]any{"title": "A", "subtitle": "B"},
		"contact": map[string]any{"email": "hi@aurelux.test"},
	}, "a@b.c")
	if err != nil {
		t.Fatalf("seed UpdateSettings: %v", err)
	}

	full, err := f.repo.UpdateSettings(ctx, map[string]any{
		"hero":    map[string]any{"title": "C"},
		"unknown": map[string]any{"x": 1},
		"footer":  "not an object",
	}, "a@b.c")
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	if full.Hero.Title != "C" || full.Hero.Subtitle != "B" {
		t.Errorf("hero = %+v", full.Hero)
	}
	if full.Contact.Email != "hi@aurelux.test" {
		t.Errorf("contact changed: %+v", full.Contact)
	}

	settings, _ := f.repo.ReadSettings(ctx)
	if !reflect.DeepEqual(settings, full.Settings) {
		t.Errorf("ReadSettings = %+v, want %+v", settings, full.Settings)
	}
}

func TestUpdateSettings_RejectsExternalMedia(t *testing.T) {
	f := newFixture()
	_, err := f.repo.UpdateSettings(context.Background(), map[string]any{
		"hero": map[string]any{"promoVideoUrl": "https://vimeo.test/1.mp4"},
	}, "a@b.c")
	if !apperr.IsValidation(err) {
		t.Fatalf("err = %v", err)
	}
	if f.settings.writes != 0 {
		t.Error("settings written despite validation failure")
	}
}

func TestMediaLinksAccumulate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	url := "https://cdn.aurelux.test/aurelux-beauty/images/shared.jpg"
	size := int64(2048)

	if _, err := f.repo.RegisterMedia(ctx, MediaInput{
		URL: url, Type: models.MediaImage, MimeType: "image/jpeg", SizeBytes: &size, OriginalName: "Shared.jpg",
	}, "a@b.c"); err != nil {
		t.Fatalf("RegisterMedia: %v", err)
	}

	if _, _, err := f.repo.CreateProduct(ctx, map[string]any{"name": "Serum", "cardImage": url}, "a@b.c"); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if _, err := f.repo.UpdateSettings(ctx, map[string]any{"hero": map[string]any{"posterImage": url}}, "a@b.c"); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	asset, err := f.repo.FindMedia(ctx, url)
	if err != nil || asset == nil {
		t.Fatalf("FindMedia = %v, %v", asset, err)
	}
	want := []models.EntityRef{
		{Collection: models.CollectionProducts, ID: "PROD1"},
		{Collection: models.CollectionSettings, ID: models.SettingsDocumentID},
	}
	if !reflect.DeepEqual(asset.LinkedEntities, want) {
		t.Errorf("linkedEntities = %v, want %v", asset.LinkedEntities, want)
	}
	if asset.Usage != models.UsageHeroPoster {
		t.Errorf("asset = %+v", asset)
	}

	// Re-linking the same entity keeps the set unchanged.
	if _, err := f.repo.UpdateSettings(ctx, map[string]any{"hero": map[string]any{"title": "x"}}, "a@b.c"); err != nil {
		t.Fatal(err)
	}
	asset, _ = f.repo.FindMedia(ctx, url)
	if len(asset.LinkedEntities) != 2 {
		t.Errorf("linkedEntities grew on relink: %v", asset.LinkedEntities)
	}
}

func TestLinkSyncOverwritesUploadMetadata(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	url := "https://cdn.aurelux.test/aurelux-beauty/images/a.jpg"
	size := int64(99)

	if _, err := f.repo.RegisterMedia(ctx, MediaInput{
		URL: url, MimeType: "image/jpeg", SizeBytes: &size, OriginalName: "a.jpg",
	}, "a@b.c"); err != nil {
		t.Fatalf("RegisterMedia: %v", err)
	}
	raw := map[string]any{"products": []any{map[string]any{"id": "PROD1", "name": "Serum", "cardImage": url}}}
	if _, err := f.repo.WriteFullContent(ctx, raw, "a@b.c"); err != nil {
		t.Fatalf("WriteFullContent: %v", err)
	}

	asset, err := f.repo.FindMedia(ctx, url)
	if err != nil || asset == nil {
		t.Fatalf("FindMedia = %v, %v", asset, err)
	}
	if asset.MimeType != "" || asset.SizeBytes != nil || asset.OriginalName != "" {
		t.Errorf("after link: mime=%q size=%v name=%q, want all cleared", asset.MimeType, asset.SizeBytes, asset.OriginalName)
	}
	want := models.EntityRef{Collection: models.CollectionProducts, ID: "PROD1"}
	if asset.LinkedEntity == nil || *asset.LinkedEntity != want || asset.Usage != models.UsageProductCard {
		t.Errorf("asset = %+v", asset)
	}
}

func TestUnmanagedURLsAreNotLinked(t *testing.T) {
	f := newFixture()
	if _, err := f.repo.WriteFullContent(context.Background(), sampleContent(), "a@b.c"); err != nil {
		t.Fatal(err)
	}
	for url := range f.media.assets {
		if url != "/uploads/videos/hero.mp4" && url != "/uploads/images/serum.jpg" {
			t.Errorf("unexpected asset %q", url)
		}
	}
	if a := f.media.assets["/uploads/videos/hero.mp4"]; a == nil || a.Type != models.MediaVideo || a.Usage != models.UsageHeroVideo {
		t.Errorf("hero video asset = %+v", a)
	}
}

func TestRemoveMedia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	url := "/uploads/images/a.jpg"
	f.repo.RegisterMedia(ctx, MediaInput{URL: url}, "a@b.c")

	found, err := f.repo.RemoveMedia(ctx, url, "b@b.c")
	if err != nil || !found {
		t.Fatalf("RemoveMedia = %v, %v", found, err)
	}
	asset, _ := f.repo.FindMedia(ctx, url)
	if asset == nil || !asset.IsDeleted || asset.UpdatedBy != "b@b.c" {
		t.Errorf("asset = %+v", asset)
	}

	found, err = f.repo.RemoveMedia(ctx, "/uploads/images/unknown.jpg", "b@b.c")
	if err != nil || found {
		t.Errorf("RemoveMedia(unknown) = %v, %v", found, err)
	}

	// Re-registering revives the record.
	f.repo.RegisterMedia(ctx, MediaInput{URL: url}, "a@b.c")
	if asset, _ := f.repo.FindMedia(ctx, url); asset.IsDeleted {
		t.Error("re-registered asset still deleted")
	}
}

func TestRegisterMedia_RequiresURL(t *testing.T) {
	f := newFixture()
	if _, err := f.repo.RegisterMedia(context.Background(), MediaInput{URL: " "}, "a@b.c"); !apperr.IsValidation(err) {
		t.Errorf("err = %v", err)
	}
}

func TestActivityRecordedForEveryWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.WriteFullContent(ctx, sampleContent(), "a@b.c")
	created, _, _ := f.repo.CreateProduct(ctx, map[string]any{"name": "Mask"}, "a@b.c")
	f.repo.UpdateProduct(ctx, created.ID, map[string]any{"usp": "New"}, "a@b.c")
	f.repo.DeleteProduct(ctx, created.ID, "a@b.c")
	f.repo.UpdateSettings(ctx, map[string]any{"footer": map[string]any{"tagline": "t"}}, "a@b.c")
	f.repo.RegisterMedia(ctx, MediaInput{URL: "/uploads/images/z.jpg"}, "a@b.c")
	f.repo.RemoveMedia(ctx, "/uploads/images/z.jpg", "a@b.c")

	want := []string{
		models.ActionContentReplace,
		models.ActionProductCreate,
		models.ActionProductUpdate,
		models.ActionProductDelete,
		models.ActionSettingsUpdate,
		models.ActionMediaUpload,
		models.ActionMediaDelete,
	}
	if got := f.activity.actions(); !slices.Equal(got, want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}

	update := f.activity.entries[2]
	if len(update.Changes) != 1 || update.Changes[0].Path != "usp" || update.Changes[0].After != "New" {
		t.Errorf("update diff = %+v", update.Changes)
	}
	if update.Target == nil || *update.Target != (models.EntityRef{Collection: "products", ID: created.ID}) {
		t.Errorf("update target = %+v", update.Target)
	}

	create := f.activity.entries[1]
	if create.Metadata["beforeCount"] != 3 || create.Metadata["afterCount"] != 4 {
		t.Errorf("create metadata = %v", create.Metadata)
	}

	recent, err := f.repo.RecentActivity(ctx, models.ActivityFilter{Limit: 2})
	if err != nil || len(recent) != 2 || recent[0].Action != models.ActionMediaDelete {
		t.Errorf("RecentActivity = %v, %v", recent, err)
	}
}

func TestActivityFailureDoesNotFailWrites(t *testing.T) {
	f := newFixture()
	f.activity.fail = true

	if _, _, err := f.repo.CreateProduct(context.Background(), map[string]any{"name": "Serum"}, "a@b.c"); err != nil {
		t.Fatalf("CreateProduct with failing activity store: %v", err)
	}
	if len(f.products.records) != 1 {
		t.Error("product not stored")
	}
}

func TestWithNames(t *testing.T) {
	f := newFixture()
	repo := New(Stores{
		Products: f.products, Settings: f.settings, Media: f.media, Activity: f.activity,
	}, uploadsPolicy{}, WithNames(Names{Settings: "settings_v2", SettingsID: "site"}))

	if _, err := repo.UpdateSettings(context.Background(), map[string]any{
		"brand": map[string]any{"logoImage": "/uploads/images/logo.png"},
	}, "a@b.c"); err != nil {
		t.Fatal(err)
	}
	asset := f.media.assets["/uploads/images/logo.png"]
	want := models.EntityRef{Collection: "settings_v2", ID: "site"}
	if asset == nil || !asset.HasLink(want) {
		t.Errorf("asset = %+v, want link %v", asset, want)
	}
	if f.settings.rec.ID != "site" || repo.Names().Products != models.CollectionProducts {
		t.Errorf("names not applied: %+v / %+v", f.settings.rec, repo.Names())
	}
}
