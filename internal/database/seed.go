package database

import (
	"context"
	"fmt"
	"time"

	"arts-rental/internal/domain"
	"arts-rental/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seed populates roles, categories, products, and a demo account on an
// empty database. Each section is guarded by a count check so restarts
// never duplicate rows.
func Seed(
	ctx context.Context,
	roleRepo repository.RoleRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) error {
	if err := seedRoles(ctx, roleRepo, logger); err != nil {
		return err
	}
	if err := seedCategories(ctx, categoryRepo, logger); err != nil {
		return err
	}
	if err := seedProducts(ctx, categoryRepo, productRepo, logger); err != nil {
		return err
	}
	if err := seedUsers(ctx, userRepo, logger); err != nil {
		return err
	}
	return nil
}

func seedRoles(ctx context.Context, roleRepo repository.RoleRepository, logger *zap.Logger) error {
	count, err := roleRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count roles: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range []string{domain.RoleUser, domain.RoleAdmin} {
		role := &domain.Role{
			ID:        uuid.New(),
			Name:      name,
			CreatedAt: time.Now(),
		}
		if err := roleRepo.Create(ctx, role); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}

	logger.Info("Roles seeded")
	return nil
}

func seedCategories(ctx context.Context, categoryRepo repository.CategoryRepository, logger *zap.Logger) error {
	count, err := categoryRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	categories := []struct {
		name        string
		description string
	}{
		{"Lighting", "Stage and studio lighting equipment"},
		{"Cables", "Audio, video, and power cables"},
		{"Stage Equipment", "Props, stands, and stage elements"},
		{"Control Panels", "Mixing desks and control systems"},
	}

	for _, c := range categories {
		category := &domain.Category{
			ID:          uuid.New(),
			Name:        c.name,
			Description: c.description,
			CreatedAt:   time.Now(),
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.name, err)
		}
	}

	logger.Info("Categories seeded", zap.Int("count", len(categories)))
	return nil
}

func seedProducts(
	ctx context.Context,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	logger *zap.Logger,
) error {
	count, err := productRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := []struct {
		name        string
		description string
		priceCents  int64
		imageURL    string
		category    string
	}{
		{"LED Par Light 64", "Professional RGB LED par light with DMX control", 1500, "/images/lighting.svg", "Lighting"},
		{"Fresnel Spotlight 1000W", "Classic theater spotlight with barn doors", 2500, "/images/spotlight.svg", "Lighting"},
		{"Moving Head Light", "Intelligent moving head with gobo patterns", 4500, "/images/projector.svg", "Lighting"},
		{"XLR Cable 10m", "Professional balanced audio cable", 500, "/images/microphone.svg", "Cables"},
		{"HDMI Cable 15m", "High-speed HDMI cable for video runs", 700, "/images/cable.svg", "Cables"},
		{"Power Extension Reel 25m", "Heavy-duty power cable reel with four sockets", 900, "/images/power.svg", "Cables"},
		{"Microphone Stand", "Adjustable boom microphone stand", 600, "/images/tripod.svg", "Stage Equipment"},
		{"Speaker Stand Pair", "Heavy-duty adjustable speaker stands (pair)", 1200, "/images/easel.svg", "Stage Equipment"},
		{"Fog Machine", "Professional fog machine with remote control", 3000, "/images/screen.svg", "Stage Equipment"},
		{"DMX Controller 512", "512-channel DMX lighting controller", 4000, "/images/canvas.svg", "Control Panels"},
		{"Audio Mixer 16-Channel", "Professional 16-channel mixing desk", 5000, "/images/mixer.svg", "Control Panels"},
		{"Lighting Console", "Advanced lighting control console with touchscreen", 7500, "/images/camera.svg", "Control Panels"},
	}

	for _, p := range products {
		category, err := categoryRepo.FindByName(ctx, p.category)
		if err != nil {
			return fmt.Errorf("failed to resolve category %s: %w", p.category, err)
		}

		product := &domain.Product{
			ID:          uuid.New(),
			Name:        p.name,
			Description: p.description,
			PriceCents:  p.priceCents,
			ImageURL:    p.imageURL,
			Available:   true,
			CategoryID:  category.ID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.name, err)
		}
	}

	logger.Info("Products seeded", zap.Int("count", len(products)))
	return nil
}

func seedUsers(ctx context.Context, userRepo repository.UserRepository, logger *zap.Logger) error {
	count, err := userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "student",
		Email:        "student@arts.edu",
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := userRepo.Create(ctx, user, []string{domain.RoleUser}); err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	logger.Info("Demo user created", zap.String("username", user.Username))
	return nil
}
