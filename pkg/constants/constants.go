package constants

//============== ROLES ==============

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
	RoleClient     Role = "CLIENT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleClient:
		return true
	}
	return false
}

//============== UPLOAD CONTEXTS ==============

type UploadContext string

const (
	UploadContextJobPhoto UploadContext = "job_photo"
)

func (uc UploadContext) String() string {
	return string(uc)
}

//============== ASSETS ==============

type AssetType string

const (
	AssetTypeAirConditioner AssetType = "AIR_CONDITIONER"
	AssetTypeAirPurifier    AssetType = "AIR_PURIFIER"
	AssetTypeExhaustFan     AssetType = "EXHAUST_FAN"
	AssetTypeColdRoom       AssetType = "COLD_ROOM"
	AssetTypeOther          AssetType = "OTHER"
)

type AssetStatus string

const (
	AssetStatusActive  AssetStatus = "ACTIVE"
	AssetStatusBroken  AssetStatus = "BROKEN"
	AssetStatusRetired AssetStatus = "RETIRED"
)

//============== JOB PHOTOS ==============

type PhotoType string

const (
	PhotoTypeBefore PhotoType = "BEFORE"
	PhotoTypeAfter  PhotoType = "AFTER"
)

//============== NOTIFICATIONS ==============

const (
	NotificationApprovalRequested = "APPROVAL_REQUESTED"
	NotificationApprovalApproved  = "APPROVAL_APPROVED"
	NotificationApprovalRejected  = "APPROVAL_REJECTED"
	NotificationWorkOrderDone     = "WORK_ORDER_COMPLETED"
	NotificationJobAssigned       = "JOB_ASSIGNED"
	NotificationFeedbackReceived  = "FEEDBACK_RECEIVED"
	NotificationContactMessage    = "CONTACT_MESSAGE"
)

// WebSocket envelope types.
const (
	WSMessageNotification = "notification"
)

//============== RATE LIMIT CATEGORIES ==============

const (
	RateCategoryLogin   = "login"
	RateCategoryAPI     = "api"
	RateCategoryUpload  = "upload"
	RateCategoryContact = "contact"
)

//============== CACHE KEYS ==============

const (
	// rate:<category>:<identifier> -> hit counter for the current window
	CacheKeyRateLimit = "rate:%s:%s"

	// asset_qr:<code> -> asset id
	CacheKeyAssetQR = "asset_qr:%s"
)
