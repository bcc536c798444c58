package validation

import (
	"encoding/json"
	"regexp"

	"hvac-service/pkg/constants"

	"github.com/go-playground/validator/v10"
)

var (
	thaiPhoneRegex = regexp.MustCompile(`^(\+66|0)\d{8,9}$`)
	usernameRegex  = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,64}$`)
)

func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"th_phone":     isThaiPhone,
		"username":     isUsername,
		"json_doc":     isJSONDocument,
		"role":         isRole,
		"asset_type":   isAssetType,
		"asset_status": isAssetStatus,
		"photo_type":   isPhotoType,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isThaiPhone(fl validator.FieldLevel) bool {
	return thaiPhoneRegex.MatchString(fl.Field().String())
}

func isUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// isJSONDocument accepts any syntactically valid JSON. The checklist payload is
// stored as-is and its inner shape is owned by the client.
func isJSONDocument(fl validator.FieldLevel) bool {
	return json.Valid([]byte(fl.Field().String()))
}

func isRole(fl validator.FieldLevel) bool {
	return constants.Role(fl.Field().String()).Valid()
}

func isAssetType(fl validator.FieldLevel) bool {
	switch constants.AssetType(fl.Field().String()) {
	case constants.AssetTypeAirConditioner, constants.AssetTypeAirPurifier,
		constants.AssetTypeExhaustFan, constants.AssetTypeColdRoom, constants.AssetTypeOther:
		return true
	}
	return false
}

func isAssetStatus(fl validator.FieldLevel) bool {
	switch constants.AssetStatus(fl.Field().String()) {
	case constants.AssetStatusActive, constants.AssetStatusBroken, constants.AssetStatusRetired:
		return true
	}
	return false
}

func isPhotoType(fl validator.FieldLevel) bool {
	switch constants.PhotoType(fl.Field().String()) {
	case constants.PhotoTypeBefore, constants.PhotoTypeAfter:
		return true
	}
	return false
}
