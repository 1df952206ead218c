package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"parkly/internal/reservations"
	"parkly/internal/shared/config"
	"parkly/internal/shared/database"
	"parkly/internal/slots"
	"parkly/internal/users"
	"parkly/internal/vehicles"
	"parkly/internal/venues"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Parkly database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("Database cleaned")

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed, database is ready for testing")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"reservations",
		"vehicles",
		"parking_slots",
		"venues",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	venueIDs, err := s.SeedVenues(userIDs)
	if err != nil {
		return fmt.Errorf("failed to seed venues: %w", err)
	}

	if err := s.SeedSlots(venueIDs); err != nil {
		return fmt.Errorf("failed to seed parking slots: %w", err)
	}

	if err := s.SeedVehicles(userIDs); err != nil {
		return fmt.Errorf("failed to seed vehicles: %w", err)
	}

	if err := s.SeedReservations(userIDs, venueIDs); err != nil {
		return fmt.Errorf("failed to seed reservations: %w", err)
	}

	// Fresh cache state after reseeding
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates one user per role plus an extra driver.
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		phone     string
		role      users.Role
	}{
		{"admin", "Platform", "Admin", "admin@parkly.io", "+14155550100", users.RoleSuperAdmin},
		{"owner1", "Dana", "Whitfield", "dana.whitfield@parkly.io", "+14155550101", users.RoleVenueOwner},
		{"owner2", "Marcus", "Lindqvist", "marcus.lindqvist@parkly.io", "+14155550102", users.RoleVenueOwner},
		{"driver1", "Priya", "Raman", "priya.raman@example.com", "+14155550103", users.RoleUser},
		{"driver2", "Tomas", "Herrera", "tomas.herrera@example.com", "+14155550104", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Phone:     userData.phone,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedVenues creates a mix of garages. The last one is deliberately tiny
// so capacity-exhaustion flows are easy to exercise.
func (s *Seeder) SeedVenues(userIDs map[string]uuid.UUID) (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding venues...")

	venueIDs := make(map[string]uuid.UUID)

	venuesData := []struct {
		key          string
		ownerKey     string
		name         string
		description  string
		address      string
		city         string
		state        string
		zipCode      string
		totalSpots   int
		pricePerHour float64
		open         string
		close        string
		amenities    []string
	}{
		{
			"downtown", "owner1", "Downtown Central Garage",
			"Covered multi-level garage two blocks from the financial district",
			"420 Market St", "San Francisco", "CA", "94111",
			120, 8.50, "06:00", "23:00",
			[]string{venues.AmenitySecurity, venues.AmenityCamera, venues.AmenityCovered, venues.AmenityEVCharging},
		},
		{
			"airport", "owner1", "SFO Long-Term Lot B",
			"Open-air long-term parking with shuttle service",
			"780 N McDonnell Rd", "San Francisco", "CA", "94128",
			300, 4.25, "00:00", "23:59",
			[]string{venues.AmenitySecurity, venues.AmenityCamera},
		},
		{
			"midtown", "owner2", "Midtown Valet Deck",
			"Premium valet parking with car wash add-on",
			"55 E 52nd St", "New York", "NY", "10022",
			60, 15.00, "07:00", "22:00",
			[]string{venues.AmenityValet, venues.AmenityCarWash, venues.AmenityCovered},
		},
		{
			"pocket", "owner2", "Pocket Lot",
			"Single-spot boutique parking",
			"12 Minna St", "San Francisco", "CA", "94105",
			1, 12.00, "08:00", "20:00",
			[]string{venues.AmenityCamera},
		},
	}

	for _, venueData := range venuesData {
		venue := venues.Venue{
			ID:             uuid.New(),
			OwnerID:        userIDs[venueData.ownerKey],
			Name:           venueData.name,
			Description:    venueData.description,
			Address:        venueData.address,
			City:           venueData.city,
			State:          venueData.state,
			ZipCode:        venueData.zipCode,
			TotalSpots:     venueData.totalSpots,
			AvailableSpots: venueData.totalSpots,
			PricePerHour:   venueData.pricePerHour,
			OperatingHours: venues.OperatingHours{Open: venueData.open, Close: venueData.close},
			Amenities:      venueData.amenities,
			Status:         venues.StatusActive,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&venue).Error; err != nil {
			return nil, fmt.Errorf("failed to create venue %s: %w", venue.Name, err)
		}

		venueIDs[venueData.key] = venue.ID
		fmt.Printf("    Created venue: %s (%d spots)\n", venue.Name, venue.TotalSpots)
	}

	return venueIDs, nil
}

// SeedSlots lays out numbered slots for the downtown garage only. The
// other venues run without slot-level inventory.
func (s *Seeder) SeedSlots(venueIDs map[string]uuid.UUID) error {
	fmt.Println("  Seeding parking slots...")

	var slotList []slots.ParkingSlot
	for floor := 1; floor <= 2; floor++ {
		for i := 1; i <= 10; i++ {
			slotType := slots.SlotTypeCar
			if i > 8 {
				slotType = slots.SlotTypeMotorcycle
			}
			slotList = append(slotList, slots.ParkingSlot{
				ID:         uuid.New(),
				VenueID:    venueIDs["downtown"],
				SlotNumber: fmt.Sprintf("%c-%02d", 'A'+floor-1, i),
				Floor:      floor,
				Type:       slotType,
				Status:     slots.SlotAvailable,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			})
		}
	}

	if err := s.db.PostgreSQL.Create(&slotList).Error; err != nil {
		return fmt.Errorf("failed to create parking slots: %w", err)
	}

	fmt.Printf("    Created %d slots for Downtown Central Garage\n", len(slotList))
	return nil
}

func (s *Seeder) SeedVehicles(userIDs map[string]uuid.UUID) error {
	fmt.Println("  Seeding vehicles...")

	vehiclesData := []struct {
		ownerKey     string
		vehicleType  vehicles.VehicleType
		licensePlate string
		make         string
		model        string
		color        string
		isDefault    bool
	}{
		{"driver1", vehicles.TypeCar, "7ABC123", "Toyota", "Corolla", "Silver", true},
		{"driver1", vehicles.TypeMotorcycle, "1MC4567", "Honda", "CB500F", "Red", false},
		{"driver2", vehicles.TypeCar, "8XYZ890", "Tesla", "Model 3", "White", true},
	}

	for _, vehicleData := range vehiclesData {
		vehicle := vehicles.Vehicle{
			ID:           uuid.New(),
			UserID:       userIDs[vehicleData.ownerKey],
			Type:         vehicleData.vehicleType,
			LicensePlate: vehicleData.licensePlate,
			Make:         vehicleData.make,
			Model:        vehicleData.model,
			Color:        vehicleData.color,
			IsDefault:    vehicleData.isDefault,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&vehicle).Error; err != nil {
			return fmt.Errorf("failed to create vehicle %s: %w", vehicle.LicensePlate, err)
		}

		fmt.Printf("    Created vehicle: %s %s (%s)\n", vehicle.Make, vehicle.Model, vehicle.LicensePlate)
	}

	return nil
}

// SeedReservations creates a few reservations across the lifecycle and
// adjusts the venue counters to match.
func (s *Seeder) SeedReservations(userIDs, venueIDs map[string]uuid.UUID) error {
	fmt.Println("  Seeding reservations...")

	now := time.Now().UTC().Truncate(time.Hour)
	confirmedAt := now.Add(-2 * time.Hour)
	cancelledAt := now.Add(-1 * time.Hour)

	reservationsData := []struct {
		userKey       string
		venueKey      string
		start         time.Time
		end           time.Time
		status        reservations.Status
		paymentStatus reservations.PaymentStatus
		pricePerHour  float64
		plate         string
		confirmedAt   *time.Time
		cancelledAt   *time.Time
	}{
		// Currently parked
		{"driver1", "downtown", now.Add(-1 * time.Hour), now.Add(3 * time.Hour),
			reservations.StatusActive, reservations.PaymentPaid, 8.50, "7ABC123", &confirmedAt, nil},
		// Confirmed for tomorrow
		{"driver2", "downtown", now.Add(24 * time.Hour), now.Add(28 * time.Hour),
			reservations.StatusConfirmed, reservations.PaymentPaid, 8.50, "8XYZ890", &confirmedAt, nil},
		// Awaiting payment
		{"driver2", "midtown", now.Add(48 * time.Hour), now.Add(50 * time.Hour),
			reservations.StatusPending, reservations.PaymentPending, 15.00, "8XYZ890", nil, nil},
		// Finished stay
		{"driver1", "airport", now.Add(-72 * time.Hour), now.Add(-48 * time.Hour),
			reservations.StatusCompleted, reservations.PaymentPaid, 4.25, "7ABC123", &confirmedAt, nil},
		// Changed plans
		{"driver1", "midtown", now.Add(96 * time.Hour), now.Add(99 * time.Hour),
			reservations.StatusCancelled, reservations.PaymentRefunded, 15.00, "7ABC123", &confirmedAt, &cancelledAt},
	}

	for _, resData := range reservationsData {
		hours := resData.end.Sub(resData.start).Hours()
		reservation := reservations.Reservation{
			ID:             uuid.New(),
			ReservationRef: generateRef(),
			UserID:         userIDs[resData.userKey],
			VenueID:        venueIDs[resData.venueKey],
			Vehicle: reservations.VehicleSnapshot{
				Type:         reservations.VehicleCar,
				LicensePlate: resData.plate,
			},
			StartTime:     resData.start,
			EndTime:       resData.end,
			Status:        resData.status,
			PaymentStatus: resData.paymentStatus,
			TotalAmount:   hours * resData.pricePerHour,
			ConfirmedAt:   resData.confirmedAt,
			CancelledAt:   resData.cancelledAt,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		// Occupying reservations consume a spot from the counter and
		// carry the claim so a later cancel releases it.
		if reservation.Status == reservations.StatusPending ||
			reservation.Status == reservations.StatusConfirmed ||
			reservation.Status == reservations.StatusActive {
			err := s.db.PostgreSQL.Exec(
				"UPDATE venues SET available_spots = available_spots - 1 WHERE id = ? AND available_spots > 0",
				reservation.VenueID,
			).Error
			if err != nil {
				return fmt.Errorf("failed to adjust venue counter: %w", err)
			}
			reservation.SpotClaimed = true
		}

		if err := s.db.PostgreSQL.Create(&reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation %s: %w", reservation.ReservationRef, err)
		}

		fmt.Printf("    Created reservation: %s (%s at %s)\n",
			reservation.ReservationRef, reservation.Status, resData.venueKey)
	}

	return nil
}

func generateRef() string {
	return "PRK-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}
