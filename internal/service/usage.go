package service

import (
	"context"
	"sync"

	"github.com/maheshrc27/community-api/internal/media"
	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

// UsageCollector builds the set of storage identifiers referenced by live
// data. It only reads.
type UsageCollector struct {
	pr repository.PostRepository
	ur repository.UserRepository
	ar repository.AnnouncementRepository
	cr repository.ContentRepository
	ex *media.Extractor
}

func NewUsageCollector(
	pr repository.PostRepository,
	ur repository.UserRepository,
	ar repository.AnnouncementRepository,
	cr repository.ContentRepository,
	ex *media.Extractor) *UsageCollector {
	return &UsageCollector{
		pr: pr,
		ur: ur,
		ar: ar,
		cr: cr,
		ex: ex,
	}
}

// Collect visits every entity type that can hold a media reference. Each
// collector produces its own set; the results are unioned once all succeed.
func (c *UsageCollector) Collect(ctx context.Context) (media.Set, error) {
	g, ctx := errgroup.WithContext(ctx)

	var (
		mu    sync.Mutex
		parts []media.Set
	)
	collect := func(load func(context.Context) (media.Set, error)) {
		g.Go(func() error {
			set, err := load(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			parts = append(parts, set)
			mu.Unlock()
			return nil
		})
	}

	collect(func(ctx context.Context) (media.Set, error) {
		posts, err := c.pr.ListMediaRefs(ctx)
		if err != nil {
			return nil, err
		}
		return postUsage(c.ex, posts), nil
	})
	collect(func(ctx context.Context) (media.Set, error) {
		refs, err := c.ur.ListProfilePictures(ctx)
		if err != nil {
			return nil, err
		}
		return refUsage(c.ex, refs), nil
	})
	collect(func(ctx context.Context) (media.Set, error) {
		refs, err := c.ar.ListImages(ctx)
		if err != nil {
			return nil, err
		}
		return refUsage(c.ex, refs), nil
	})
	collect(func(ctx context.Context) (media.Set, error) {
		events, err := c.cr.ListGalleryEvents(ctx)
		if err != nil {
			return nil, err
		}
		return galleryUsage(c.ex, events), nil
	})
	collect(func(ctx context.Context) (media.Set, error) {
		refs, err := c.cr.ListAlumniPhotos(ctx)
		if err != nil {
			return nil, err
		}
		return refUsage(c.ex, refs), nil
	})
	collect(func(ctx context.Context) (media.Set, error) {
		refs, err := c.cr.ListTeamMemberPhotos(ctx)
		if err != nil {
			return nil, err
		}
		return refUsage(c.ex, refs), nil
	})
	collect(func(ctx context.Context) (media.Set, error) {
		about, err := c.cr.GetAboutUs(ctx)
		if err != nil {
			return nil, err
		}
		return aboutUsage(c.ex, about), nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	used := media.NewSet()
	for _, part := range parts {
		used.Union(part)
	}
	return used, nil
}

// postUsage covers the live featured image and the one proposed by a pending
// edit, which must survive until the edit is decided.
func postUsage(ex *media.Extractor, posts []models.PostMediaRefs) media.Set {
	set := media.NewSet()
	for _, p := range posts {
		addRef(ex, set, p.FeaturedImage)
		if p.PendingFeatured != nil {
			addRef(ex, set, *p.PendingFeatured)
		}
	}
	return set
}

func galleryUsage(ex *media.Extractor, events []*models.GalleryEvent) media.Set {
	set := media.NewSet()
	for _, event := range events {
		for _, image := range event.Images {
			addRef(ex, set, image)
		}
	}
	return set
}

func aboutUsage(ex *media.Extractor, about *models.AboutUs) media.Set {
	set := media.NewSet()
	if about != nil {
		addRef(ex, set, about.Image)
	}
	return set
}

// refUsage serves every entity with a single image column: user profile
// pictures, announcements, alumni and team members.
func refUsage(ex *media.Extractor, refs []models.MediaRef) media.Set {
	set := media.NewSet()
	for _, ref := range refs {
		addRef(ex, set, ref)
	}
	return set
}

func addRef(ex *media.Extractor, set media.Set, ref models.MediaRef) {
	if id, ok := ex.PublicID(ref); ok {
		set.Add(id)
	}
}
