package commands

import (
	"context"
	"log/slog"
	"strings"

	"voyago/contexts/travel-core/booking-ledger/application"
	"voyago/contexts/travel-core/booking-ledger/domain/entities"
	domainerrors "voyago/contexts/travel-core/booking-ledger/domain/errors"
	"voyago/contexts/travel-core/booking-ledger/ports"
)

// PlatformAdminUseCase mutates platform settings. Every operation is
// owner-only; the pause flag blocks new bookings while leaving lifecycle
// operations on existing bookings available.
type PlatformAdminUseCase struct {
	Settings ports.SettingsStore
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc PlatformAdminUseCase) UpdatePlatformFee(ctx context.Context, caller string, feeBps int64) (entities.PlatformSettings, error) {
	logger := application.ResolveLogger(uc.Logger)

	if feeBps < 0 || feeBps > entities.MaxFeeBps {
		return entities.PlatformSettings{}, domainerrors.ErrFeeTooHigh
	}
	settings, err := uc.loadForOwner(ctx, caller)
	if err != nil {
		return entities.PlatformSettings{}, err
	}

	now := nowUTC(uc.Clock)
	previous := settings.FeeBps
	settings.FeeBps = feeBps
	settings.UpdatedAt = now
	if err := uc.Settings.PutSettings(ctx, settings); err != nil {
		return entities.PlatformSettings{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.PlatformSettings{}, err
		}
		event, err := newPlatformEnvelope(eventID, "platform.fee_updated", settings.Owner, now, map[string]any{
			"previous_fee_bps": previous,
			"fee_bps":          feeBps,
		})
		if err != nil {
			return entities.PlatformSettings{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, event); err != nil {
			return entities.PlatformSettings{}, err
		}
	}

	logger.Info("platform fee updated",
		"event", "platform_fee_updated",
		"module", "travel-core/booking-ledger",
		"layer", "application",
		"previous_fee_bps", previous,
		"fee_bps", feeBps,
	)
	return settings, nil
}

func (uc PlatformAdminUseCase) SetPaused(ctx context.Context, caller string, paused bool) (entities.PlatformSettings, error) {
	logger := application.ResolveLogger(uc.Logger)

	settings, err := uc.loadForOwner(ctx, caller)
	if err != nil {
		return entities.PlatformSettings{}, err
	}

	settings.Paused = paused
	settings.UpdatedAt = nowUTC(uc.Clock)
	if err := uc.Settings.PutSettings(ctx, settings); err != nil {
		return entities.PlatformSettings{}, err
	}

	logger.Info("platform pause flag set",
		"event", "platform_pause_set",
		"module", "travel-core/booking-ledger",
		"layer", "application",
		"paused", paused,
	)
	return settings, nil
}

func (uc PlatformAdminUseCase) UpdateFeeRecipient(ctx context.Context, caller string, recipient string) (entities.PlatformSettings, error) {
	logger := application.ResolveLogger(uc.Logger)

	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return entities.PlatformSettings{}, domainerrors.ErrInvalidRequest
	}
	settings, err := uc.loadForOwner(ctx, caller)
	if err != nil {
		return entities.PlatformSettings{}, err
	}

	settings.FeeRecipient = recipient
	settings.UpdatedAt = nowUTC(uc.Clock)
	if err := uc.Settings.PutSettings(ctx, settings); err != nil {
		return entities.PlatformSettings{}, err
	}

	logger.Info("platform fee recipient updated",
		"event", "platform_fee_recipient_updated",
		"module", "travel-core/booking-ledger",
		"layer", "application",
		"fee_recipient", recipient,
	)
	return settings, nil
}

func (uc PlatformAdminUseCase) loadForOwner(ctx context.Context, caller string) (entities.PlatformSettings, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.PlatformSettings{}, domainerrors.ErrInvalidRequest
	}
	settings, err := uc.Settings.GetSettings(ctx)
	if err != nil {
		return entities.PlatformSettings{}, err
	}
	if settings.Owner != caller {
		return entities.PlatformSettings{}, domainerrors.ErrNotOwner
	}
	return settings, nil
}
