package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rachmati-dz/rachmati-api/config"
	"github.com/rachmati-dz/rachmati-api/models"
)

const (
	// MaxDeliverySize is the payload ceiling the Telegram gateway enforces
	MaxDeliverySize = 50 * 1024 * 1024

	// ArchiveCompressionRatio is the conservative size estimate for a
	// multi-file zip bundle relative to the raw total
	ArchiveCompressionRatio = 0.8
)

// Eligibility issue codes surfaced to the operator
const (
	IssueNoRachmat            = "no_rachmat"
	IssueNoFiles              = "no_files"
	IssueFilesNotFound        = "files_not_found"
	IssueFileTooLarge         = "file_too_large"
	IssueFilesTooLarge        = "files_too_large"
	IssueNoTelegramConnection = "no_telegram_connection"
)

// EligibilityResult is the outcome of a delivery pre-flight check
type EligibilityResult struct {
	CanComplete    bool     `json:"can_complete"`
	Message        string   `json:"message"`
	Issues         []string `json:"issues"`
	MissingRachmat []string `json:"missing_rachmat,omitempty"` // display titles of patterns with no file records
	MissingFiles   []string `json:"missing_files,omitempty"`   // filenames recorded in the DB but absent on disk
	TotalSize      int64    `json:"total_size"`
	FileCount      int      `json:"file_count"`
	RachmaCount    int      `json:"rachma_count"`
}

func failedResult(code, message string) *EligibilityResult {
	return &EligibilityResult{
		CanComplete: false,
		Message:     message,
		Issues:      []string{code},
	}
}

// CheckDeliveryEligibility determines whether an order may safely be
// marked completed. It is read-only and never mutates state, so it can
// serve both as the operator pre-flight and as the hard gate inside the
// completion transition. The order must have Client, Rachma/Items and
// their Files preloaded.
//
// Business-rule failures come back as a result, never as a panic; truly
// unexpected faults (storage unreachable, malformed data) are recovered
// and reported as a failed check.
func CheckDeliveryEligibility(order *models.Order) (result *EligibilityResult) {
	defer func() {
		if r := recover(); r != nil {
			config.GetLogger().Error("delivery eligibility check panicked",
				zap.Uint("order_id", order.ID),
				zap.Any("panic", r))
			result = &EligibilityResult{
				CanComplete: false,
				Message:     "تعذر التحقق من إمكانية التسليم، حاول مجددا",
				Issues:      []string{},
			}
		}
	}()

	rachmat := order.Rachmat()
	if len(rachmat) == 0 {
		return failedResult(IssueNoRachmat, "لا توجد رشمات مرتبطة بهذه الطلبية")
	}

	storage := GetStorage()

	var missingRachmat []string // patterns with zero file records
	var missingFiles []string   // files recorded but absent on disk
	var totalSize int64
	fileCount := 0

	for _, rachma := range rachmat {
		if len(rachma.Files) == 0 {
			missingRachmat = append(missingRachmat, rachma.DisplayTitle())
			continue
		}
		for _, f := range rachma.Files {
			if !storage.Exists(f.Path) {
				missingFiles = append(missingFiles, fmt.Sprintf("%s (%s)", f.OriginalName, rachma.DisplayTitle()))
				continue
			}
			size, err := storage.Size(f.Path)
			if err != nil {
				missingFiles = append(missingFiles, fmt.Sprintf("%s (%s)", f.OriginalName, rachma.DisplayTitle()))
				continue
			}
			totalSize += size
			fileCount++
		}
	}

	if len(missingRachmat) > 0 {
		result := failedResult(IssueNoFiles,
			fmt.Sprintf("رشمات بدون ملفات: %s", strings.Join(missingRachmat, "، ")))
		result.MissingRachmat = missingRachmat
		return result
	}

	if len(missingFiles) > 0 {
		result := failedResult(IssueFilesNotFound,
			fmt.Sprintf("ملفات غير موجودة على القرص: %s", strings.Join(missingFiles, "، ")))
		result.MissingFiles = missingFiles
		return result
	}

	if totalSize > MaxDeliverySize {
		if fileCount > 1 {
			// Multiple files get bundled into one archive before sending;
			// re-check the ceiling against the estimated archive size.
			estimated := int64(float64(totalSize) * ArchiveCompressionRatio)
			if estimated > MaxDeliverySize {
				result := failedResult(IssueFilesTooLarge,
					fmt.Sprintf("حجم الملفات مجتمعة يتجاوز الحد المسموح به (%d MB)", MaxDeliverySize/(1024*1024)))
				result.TotalSize = totalSize
				result.FileCount = fileCount
				result.RachmaCount = len(rachmat)
				return result
			}
		} else {
			result := failedResult(IssueFileTooLarge,
				fmt.Sprintf("حجم الملف يتجاوز الحد المسموح به (%d MB)", MaxDeliverySize/(1024*1024)))
			result.TotalSize = totalSize
			result.FileCount = fileCount
			result.RachmaCount = len(rachmat)
			return result
		}
	}

	if !order.Client.HasTelegram() {
		result := failedResult(IssueNoTelegramConnection, "الزبون لم يربط حسابه بتيليغرام")
		result.TotalSize = totalSize
		result.FileCount = fileCount
		result.RachmaCount = len(rachmat)
		return result
	}

	return &EligibilityResult{
		CanComplete: true,
		Message:     "الطلبية جاهزة للتسليم",
		Issues:      []string{},
		TotalSize:   totalSize,
		FileCount:   fileCount,
		RachmaCount: len(rachmat),
	}
}

// AttemptDelivery pushes the order's files to the buyer through the
// Telegram gateway. All gateway failure modes collapse into false so the
// caller can apply one rule: no successful delivery, no completion.
func AttemptDelivery(order *models.Order) (delivered bool) {
	logger := config.GetLogger()

	itemType := "single"
	itemCount := 1
	if order.IsMultiItem() {
		itemType = "multi"
		itemCount = len(order.Items)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("rachma file delivery panicked",
				zap.Uint("order_id", order.ID),
				zap.Uint("client_id", order.ClientID),
				zap.Any("panic", r))
			delivered = false
		}
	}()

	if GetTelegramService().SendRachmaFileWithRetry(order) {
		logger.Info("rachma file delivered",
			zap.Uint("order_id", order.ID),
			zap.Uint("client_id", order.ClientID),
			zap.String("item_type", itemType),
			zap.Int("item_count", itemCount))
		return true
	}

	logger.Warn("rachma file delivery failed",
		zap.Uint("order_id", order.ID),
		zap.Uint("client_id", order.ClientID),
		zap.String("item_type", itemType),
		zap.Int("item_count", itemCount))
	return false
}
