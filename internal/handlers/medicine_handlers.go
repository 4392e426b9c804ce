package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"pharmacy_backend/internal/services"
	"pharmacy_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MedicineHandler holds the medicine inventory service.
type MedicineHandler struct {
	medicineService services.MedicineService
}

// NewMedicineHandler creates a new MedicineHandler.
func NewMedicineHandler(ms services.MedicineService) *MedicineHandler {
	return &MedicineHandler{medicineService: ms}
}

// CreateMedicine handles adding a medicine to the inventory.
func (h *MedicineHandler) CreateMedicine(c *gin.Context) {
	var req services.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	medicine, err := h.medicineService.CreateMedicine(req)
	if err != nil {
		h.respondMedicineError(c, err, "CreateMedicine")
		return
	}
	c.JSON(http.StatusCreated, medicine)
}

// GetMedicines handles fetching the whole inventory, newest first.
func (h *MedicineHandler) GetMedicines(c *gin.Context) {
	medicines, err := h.medicineService.GetMedicines()
	if err != nil {
		utils.LogError(err, "GetMedicines: failed to list medicines")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch medicines.", ""))
		return
	}
	c.JSON(http.StatusOK, medicines)
}

// GetMedicineByID handles fetching a single medicine.
func (h *MedicineHandler) GetMedicineByID(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid medicine ID", ""))
		return
	}

	medicine, err := h.medicineService.GetMedicineByID(id)
	if err != nil {
		h.respondMedicineError(c, err, "GetMedicineByID")
		return
	}
	c.JSON(http.StatusOK, medicine)
}

// UpdateMedicine handles a partial update of an inventory record.
func (h *MedicineHandler) UpdateMedicine(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid medicine ID", ""))
		return
	}

	var req services.UpdateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	medicine, err := h.medicineService.UpdateMedicine(id, req)
	if err != nil {
		h.respondMedicineError(c, err, "UpdateMedicine")
		return
	}
	c.JSON(http.StatusOK, medicine)
}

// DeleteMedicine handles removing a medicine from the inventory.
func (h *MedicineHandler) DeleteMedicine(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid medicine ID", ""))
		return
	}

	if err := h.medicineService.DeleteMedicine(id); err != nil {
		h.respondMedicineError(c, err, "DeleteMedicine")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Medicine deleted"})
}

// GetExpiryStatus groups the inventory by expiry category. The optional
// ?days=N query overrides the configured horizon.
func (h *MedicineHandler) GetExpiryStatus(c *gin.Context) {
	horizonDays := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest,
				"Query parameter 'days' must be a positive integer", ""))
			return
		}
		horizonDays = parsed
	}

	report, err := h.medicineService.ExpiryStatus(horizonDays)
	if err != nil {
		utils.LogError(err, "GetExpiryStatus: failed to build expiry report")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build expiry report.", ""))
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *MedicineHandler) respondMedicineError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrMedicineNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Medicine not found.", ""))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
	case errors.Is(err, services.ErrBadDate):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeDataError, err.Error(), ""))
	default:
		utils.LogError(err, op+": unexpected error from medicineService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Medicine operation failed.", ""))
	}
}
