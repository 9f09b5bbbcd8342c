package order

import (
	"context"
	"errors"
	"testing"

	"duplo-orders/domain/order"
	"duplo-orders/infrastructure/persistence/mocks"
	apperrors "duplo-orders/pkg/errors"
	"duplo-orders/pkg/ordernum"

	"github.com/shopspring/decimal"
)

func newTestService() (*Service, *mocks.MockOrderRepository, *mocks.MockTransactionStore, *mocks.MockEnqueuer) {
	orders := mocks.NewMockOrderRepository()
	transactions := mocks.NewMockTransactionStore()
	queue := mocks.NewMockEnqueuer()
	tx := mocks.NewMockTxManager(orders)
	return NewService(orders, transactions, queue, tx), orders, transactions, queue
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		BusinessID:   "biz-1",
		DepartmentID: "dept-1",
		Items: []ItemRequest{
			{ProductID: "prod-1", Name: "Widget", Quantity: dec("2"), UnitPrice: dec("100")},
			{ProductID: "prod-2", Name: "Gadget", Quantity: dec("1"), UnitPrice: dec("50")},
		},
		Notes: "rush delivery",
	}
}

func TestCreateOrderComputesAmountFromItems(t *testing.T) {
	svc, orders, transactions, queue := newTestService()

	resp, err := svc.CreateOrder(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if !resp.Amount.Equal(dec("250")) {
		t.Errorf("amount = %s, want 250", resp.Amount)
	}
	if resp.Status != "pending" {
		t.Errorf("status = %q, want pending", resp.Status)
	}
	if !ordernum.IsValid(resp.OrderNumber) {
		t.Errorf("order number %q does not match the expected format", resp.OrderNumber)
	}
	if resp.TransactionID == "" {
		t.Error("transaction id is empty")
	}
	if resp.BusinessID != "biz-1" {
		t.Errorf("business id = %q, want biz-1", resp.BusinessID)
	}
	if resp.DepartmentID != "dept-1" {
		t.Errorf("department id = %q, want dept-1", resp.DepartmentID)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items echoed = %d, want 2", len(resp.Items))
	}
	if resp.Items[0].ProductID != "prod-1" || !resp.Items[0].Quantity.Equal(dec("2")) {
		t.Errorf("first item = %+v, want the submitted line", resp.Items[0])
	}

	if orders.Count() != 1 {
		t.Errorf("orders stored = %d, want 1", orders.Count())
	}
	if transactions.Count() != 1 {
		t.Errorf("transactions stored = %d, want 1", transactions.Count())
	}

	jobs := queue.Enqueued()
	if len(jobs) != 1 {
		t.Fatalf("jobs enqueued = %d, want 1", len(jobs))
	}
	if jobs[0].TransactionID != resp.TransactionID {
		t.Errorf("job transaction id = %q, want %q", jobs[0].TransactionID, resp.TransactionID)
	}
	if !jobs[0].OrderData.Amount.Equal(dec("250")) {
		t.Errorf("job amount = %s, want 250", jobs[0].OrderData.Amount)
	}
}

func TestCreateOrderFractionalQuantities(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRequest()
	req.Items = []ItemRequest{
		{ProductID: "prod-1", Name: "Bulk flour", Quantity: dec("2.5"), UnitPrice: dec("19.99")},
	}

	resp, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !resp.Amount.Equal(dec("49.975")) {
		t.Errorf("amount = %s, want 49.975", resp.Amount)
	}
}

func TestCreateOrderValidationLeavesNoSideEffects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateOrderRequest)
	}{
		{"missing business id", func(r *CreateOrderRequest) { r.BusinessID = "" }},
		{"missing department id", func(r *CreateOrderRequest) { r.DepartmentID = "" }},
		{"empty items", func(r *CreateOrderRequest) { r.Items = nil }},
		{"blank item name", func(r *CreateOrderRequest) { r.Items[0].Name = "   " }},
		{"zero quantity", func(r *CreateOrderRequest) { r.Items[0].Quantity = dec("0") }},
		{"negative unit price", func(r *CreateOrderRequest) { r.Items[0].UnitPrice = dec("-1") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, orders, transactions, queue := newTestService()

			req := validRequest()
			tc.mutate(req)

			_, err := svc.CreateOrder(context.Background(), req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !apperrors.Is(err, apperrors.CodeValidation) {
				t.Errorf("error code is not validation: %v", err)
			}
			if orders.Count() != 0 || transactions.Count() != 0 || len(queue.Enqueued()) != 0 {
				t.Error("validation failure must not write to any store")
			}
		})
	}
}

func TestCreateOrderEnqueueFailureRollsBackOrderRow(t *testing.T) {
	svc, orders, transactions, queue := newTestService()
	queue.EnqueueErr = errors.New("broker unreachable")

	_, err := svc.CreateOrder(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected saga failure")
	}
	if !apperrors.Is(err, apperrors.CodeInternal) {
		t.Errorf("infrastructure failure should surface as internal: %v", err)
	}

	if orders.Count() != 0 {
		t.Errorf("order rows after rollback = %d, want 0", orders.Count())
	}
	// The pending document is not retracted; the sweep reconciles it later.
	if transactions.Count() != 1 {
		t.Errorf("transaction documents = %d, want 1", transactions.Count())
	}
}

func TestCreateOrderTransactionStoreFailureRollsBackOrderRow(t *testing.T) {
	svc, orders, _, _ := newTestService()
	store := mocks.NewMockTransactionStore()
	store.CreateErr = errors.New("document store down")
	svc.transactions = store

	_, err := svc.CreateOrder(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected saga failure")
	}
	if orders.Count() != 0 {
		t.Errorf("order rows after rollback = %d, want 0", orders.Count())
	}
}

func TestCreateOrderRegeneratesNumberOnCollision(t *testing.T) {
	svc, orders, _, _ := newTestService()

	collisions := 0
	orders.FailCreateOn = func(o *order.Order) error {
		if collisions < 2 {
			collisions++
			return order.ErrDuplicateOrderNumber
		}
		return nil
	}

	resp, err := svc.CreateOrder(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateOrder failed after collisions: %v", err)
	}
	if orders.CreateCalls != 3 {
		t.Errorf("create calls = %d, want 3", orders.CreateCalls)
	}
	if !ordernum.IsValid(resp.OrderNumber) {
		t.Errorf("order number %q does not match the expected format", resp.OrderNumber)
	}
}

func TestCreateOrderGivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, orders, transactions, queue := newTestService()
	orders.FailCreateOn = func(o *order.Order) error {
		return order.ErrDuplicateOrderNumber
	}

	_, err := svc.CreateOrder(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected duplicate order number failure")
	}
	if !apperrors.Is(err, apperrors.CodeDuplicateOrderNumber) {
		t.Errorf("error code = %v, want duplicate order number", err)
	}
	if orders.CreateCalls != 3 {
		t.Errorf("create calls = %d, want 3", orders.CreateCalls)
	}
	if transactions.Count() != 0 || len(queue.Enqueued()) != 0 {
		t.Error("failed insert must not create a document or enqueue a job")
	}
}

func TestGetBusinessOrdersAggregates(t *testing.T) {
	svc, orders, _, _ := newTestService()
	orders.SetDepartmentName("dept-1", "Procurement")

	seed := func(amount string) {
		req := validRequest()
		req.Items = []ItemRequest{
			{ProductID: "p", Name: "Item", Quantity: dec("1"), UnitPrice: dec(amount)},
		}
		if _, err := svc.CreateOrder(context.Background(), req); err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}
	seed("100.50")
	seed("200.25")

	resp, err := svc.GetBusinessOrders(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("GetBusinessOrders failed: %v", err)
	}

	if resp.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", resp.TotalOrders)
	}
	if !resp.TotalAmount.Equal(dec("300.75")) {
		t.Errorf("total amount = %s, want 300.75", resp.TotalAmount)
	}
	// Orders just created fall inside the current UTC day.
	if resp.TodayOrders != 2 {
		t.Errorf("today orders = %d, want 2", resp.TodayOrders)
	}
	if !resp.TodayAmount.Equal(dec("300.75")) {
		t.Errorf("today amount = %s, want 300.75", resp.TodayAmount)
	}
	if len(resp.Orders) != 2 {
		t.Fatalf("orders listed = %d, want 2", len(resp.Orders))
	}
	if resp.Orders[0].DepartmentName != "Procurement" {
		t.Errorf("department name = %q, want Procurement", resp.Orders[0].DepartmentName)
	}
}

func TestGetBusinessOrdersUnknownBusinessIsEmpty(t *testing.T) {
	svc, _, _, _ := newTestService()

	resp, err := svc.GetBusinessOrders(context.Background(), "biz-unknown")
	if err != nil {
		t.Fatalf("GetBusinessOrders failed: %v", err)
	}
	if resp.TotalOrders != 0 || len(resp.Orders) != 0 {
		t.Errorf("expected empty aggregation, got %+v", resp)
	}
	if !resp.TotalAmount.Equal(decimal.Zero) {
		t.Errorf("total amount = %s, want 0", resp.TotalAmount)
	}
}

func TestGetBusinessOrdersRequiresBusinessID(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GetBusinessOrders(context.Background(), "")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("error code is not validation: %v", err)
	}
}
