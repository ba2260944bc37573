package basehdl

import (
	"github.com/gofiber/fiber/v3"

	"livechat/internal/common"
	"livechat/internal/utility"
)

// InsertOne tạo mới một document từ request body.
// Flow: parse body → validate → transform DTO sang model → insert.
func (h *BaseHandler[T, CreateInput, UpdateInput]) InsertOne(c fiber.Ctx) error {
	input := new(CreateInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		return HandleResponse(c, nil, err)
	}
	if err := h.ValidateInput(input); err != nil {
		return HandleResponse(c, nil, err)
	}

	model, err := h.TransformCreateInputToModel(input)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	result, err := h.BaseService.InsertOne(c.Context(), *model)
	if err != nil {
		return HandleResponse(c, nil, common.ConvertMongoError(err))
	}
	return HandleCreatedResponse(c, result, nil)
}

// Find tìm nhiều document theo filter từ query params.
func (h *BaseHandler[T, CreateInput, UpdateInput]) Find(c fiber.Ctx) error {
	filter, err := h.ProcessFilter(c)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	results, err := h.BaseService.Find(c.Context(), filter, nil)
	if err != nil {
		return HandleResponse(c, nil, common.ConvertMongoError(err))
	}
	return HandleResponse(c, results, nil)
}

// FindOne tìm một document theo filter từ query params.
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOne(c fiber.Ctx) error {
	filter, err := h.ProcessFilter(c)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	result, err := h.BaseService.FindOne(c.Context(), filter, nil)
	if err != nil {
		return HandleResponse(c, nil, common.ConvertMongoError(err))
	}
	return HandleResponse(c, result, nil)
}

// FindOneById tìm một document theo ID từ URI params.
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneById(c fiber.Ctx) error {
	id, err := utility.String2ObjectID(h.GetIDFromContext(c))
	if err != nil {
		return HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err))
	}

	result, err := h.BaseService.FindOneById(c.Context(), id)
	if err != nil {
		return HandleResponse(c, nil, common.ConvertMongoError(err))
	}
	return HandleResponse(c, result, nil)
}

// FindWithPagination tìm nhiều document với phân trang.
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindWithPagination(c fiber.Ctx) error {
	filter, err := h.ProcessFilter(c)
	if err != nil {
		return HandleResponse(c, nil, err)
	}
	page, limit := h.ParsePagination(c)

	result, err := h.BaseService.FindWithPagination(c.Context(), filter, page, limit, nil)
	if err != nil {
		return HandleResponse(c, nil, common.ConvertMongoError(err))
	}
	return HandleResponse(c, result, nil)
}

// UpdateById cập nhật một document theo ID từ URI params.
// Chỉ cập nhật các trường non-zero trong request body (partial update).
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateById(c fiber.Ctx) error {
	id, err := utility.String2ObjectID(h.GetIDFromContext(c))
	if err != nil {
		return HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err))
	}

	input := new(UpdateInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		return HandleResponse(c, nil, err)
	}
	if err := h.ValidateInput(input); err != nil {
		return HandleResponse(c, nil, err)
	}

	model, err := h.TransformUpdateInputToModel(input)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	updateData, err := h.BuildSetFromModel(model)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	result, err := h.BaseService.UpdateById(c.Context(), id, updateData)
	if err != nil {
		return HandleResponse(c, nil, common.ConvertMongoError(err))
	}
	return HandleResponse(c, result, nil)
}

// DeleteById xóa một document theo ID từ URI params.
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteById(c fiber.Ctx) error {
	id, err := utility.String2ObjectID(h.GetIDFromContext(c))
	if err != nil {
		return HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err))
	}

	if err := h.BaseService.DeleteById(c.Context(), id); err != nil {
		return HandleResponse(c, nil, common.ConvertMongoError(err))
	}
	return HandleResponse(c, fiber.Map{"deleted": true}, nil)
}

// CountDocuments đếm số lượng document theo filter từ query params.
func (h *BaseHandler[T, CreateInput, UpdateInput]) CountDocuments(c fiber.Ctx) error {
	filter, err := h.ProcessFilter(c)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	count, err := h.BaseService.CountDocuments(c.Context(), filter)
	if err != nil {
		return HandleResponse(c, nil, common.ConvertMongoError(err))
	}
	return HandleResponse(c, fiber.Map{"count": count}, nil)
}

// DocumentExists kiểm tra document có tồn tại theo filter hay không.
func (h *BaseHandler[T, CreateInput, UpdateInput]) DocumentExists(c fiber.Ctx) error {
	filter, err := h.ProcessFilter(c)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	exists, err := h.BaseService.DocumentExists(c.Context(), filter)
	if err != nil {
		return HandleResponse(c, nil, common.ConvertMongoError(err))
	}
	return HandleResponse(c, fiber.Map{"exists": exists}, nil)
}
