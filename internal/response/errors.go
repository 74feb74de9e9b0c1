package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrMissingParam   ErrCode = "MISSING_PARAMETER"
	ErrInvalidPeriod  ErrCode = "INVALID_PERIOD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrDataStore ErrCode = "DATA_STORE_ERROR"
	ErrInternal  ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidID:
		return "Format ID tidak valid."
	case ErrInvalidPayload:
		return "Payload permintaan tidak valid."
	case ErrMissingParam:
		return "Parameter wajib tidak ditemukan."
	case ErrInvalidPeriod:
		return "Kombinasi bulan dan tahun tidak valid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Sumber daya tidak ditemukan."
	case ErrConflict:
		return "Sumber daya sudah ada."
	case ErrDependencyExists:
		return "Data tidak dapat dihapus karena masih digunakan oleh data lain."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Terlalu banyak permintaan. Silakan coba lagi nanti."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrDataStore:
		return "Gagal mengakses basis data."
	case ErrInternal:
		return "Terjadi kesalahan server internal."
	default:
		return "Terjadi kesalahan yang tidak terduga."
	}
}
