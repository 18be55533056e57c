package scoring

import "liyu1981.xyz/device-health-service/pkg/models"

const DeviceGuardianCheckups = 6

type BadgeSpec struct {
	Type        models.BadgeType
	Name        string
	Description string
	Icon        string
}

var (
	FirstCheckupBadge = BadgeSpec{
		Type:        models.BadgeFirstCheckup,
		Name:        "First Check-up",
		Description: "You completed your first device check-up!",
		Icon:        "🎯",
	}
	DeviceGuardianBadge = BadgeSpec{
		Type:        models.BadgeDeviceGuardian,
		Name:        "Device Guardian",
		Description: "You completed 6+ check-ups! A true guardian of your device.",
		Icon:        "🛡️",
	}
)

// BadgesEarned lists the badges a customer qualifies for after their total-th
// evaluation at a centro. Both rules are checked independently on every call.
func BadgesEarned(total int64) []BadgeSpec {
	var earned []BadgeSpec
	if total == 1 {
		earned = append(earned, FirstCheckupBadge)
	}
	if total >= DeviceGuardianCheckups {
		earned = append(earned, DeviceGuardianBadge)
	}
	return earned
}

func (b BadgeSpec) ToModel(customerID, centroID string) *models.HealthBadge {
	return &models.HealthBadge{
		CustomerID:  customerID,
		CentroID:    centroID,
		BadgeType:   b.Type,
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
	}
}
