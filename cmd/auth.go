package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/tara-vision/stackhat/internal/auth"
	"github.com/tara-vision/stackhat/internal/storage"
	"github.com/tara-vision/stackhat/internal/ui"
)

const maxPINAttempts = 3

var errTooManyAttempts = errors.New("too many failed PIN attempts")

// authenticate creates a profile on first start and asks for the PIN on
// every later start.
func authenticate(store *storage.Manager, renderer *ui.Renderer, logger *zap.Logger) error {
	profile, err := store.LoadProfile()
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return createProfile(store, renderer, logger)
	}

	for attempt := 1; attempt <= maxPINAttempts; attempt++ {
		pin, err := askPIN("Enter PIN")
		if err != nil {
			return err
		}
		if err := auth.Verify(profile, pin); err == nil {
			logger.Info("unlocked workspace")
			return nil
		}
		logger.Warn("wrong PIN", zap.Int("attempt", attempt))
		fmt.Println(renderer.WarningMessage(fmt.Sprintf("Wrong PIN (%d/%d)", attempt, maxPINAttempts)))
	}
	return errTooManyAttempts
}

func createProfile(store *storage.Manager, renderer *ui.Renderer, logger *zap.Logger) error {
	fmt.Println(renderer.InfoMessage("No profile found. Choose a PIN of up to 6 digits."))

	for attempt := 1; attempt <= maxPINAttempts; attempt++ {
		pin, err := askPIN("New PIN")
		if err != nil {
			return err
		}
		confirm, err := askPIN("Repeat PIN")
		if err != nil {
			return err
		}
		if pin != confirm {
			fmt.Println(renderer.WarningMessage("PINs do not match"))
			continue
		}

		profile, err := auth.NewProfile(pin, time.Now())
		if err != nil {
			return err
		}
		if err := store.SaveProfile(profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		logger.Info("created profile")
		fmt.Println(renderer.SuccessMessage("Profile created"))
		return nil
	}
	return errTooManyAttempts
}

func askPIN(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: auth.ValidatePIN,
	}
	return prompt.Run()
}
