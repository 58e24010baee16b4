package dto

import "github.com/jhoicas/storefront-api/internal/domain/entity"

// NewAccountResponse convierte la entidad a su representación pública.
func NewAccountResponse(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID,
		Email:      a.Email,
		FullName:   a.FullName,
		Phone:      a.Phone,
		Role:       a.Role,
		IsActive:   a.IsActive,
		IsVerified: a.IsVerified,
		Avatar:     a.Avatar,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// NewProductResponse convierte la entidad a su representación pública.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewOrderResponse convierte la entidad a su representación pública.
func NewOrderResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			SKU:       it.SKU,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		})
	}
	a := o.ShippingAddress
	return OrderResponse{
		ID:        o.ID,
		Code:      o.Code,
		AccountID: o.AccountID,
		Items:     items,
		ShippingAddress: ShippingAddressDTO{
			FullName: a.FullName, Phone: a.Phone, Street: a.Street,
			Ward: a.Ward, District: a.District, City: a.City, Note: a.Note,
		},
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		Note:          o.Note,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// NewOrderListResponse arma la página de pedidos.
func NewOrderListResponse(list []*entity.Order, total, limit, offset int) OrderListResponse {
	items := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, NewOrderResponse(o))
	}
	return OrderListResponse{Items: items, Page: PageResponse{Limit: limit, Offset: offset, Total: total}}
}
