// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"github.com/DanielPopoola/booking-paypal-capture/internal/application"
	"github.com/DanielPopoola/booking-paypal-capture/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingStore struct {
	mock.Mock
}

func NewMockBookingStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBookingStore {
	m := &MockBookingStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBookingStore) FindByUID(ctx context.Context, uid string) (*domain.BookingRef, error) {
	args := m.Called(ctx, uid)
	booking, _ := args.Get(0).(*domain.BookingRef)
	return booking, args.Error(1)
}

type MockCredentialResolver struct {
	mock.Mock
}

func NewMockCredentialResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCredentialResolver {
	m := &MockCredentialResolver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCredentialResolver) FindPaymentCredentials(ctx context.Context, bookingID int64) (*domain.PaymentCredentials, error) {
	args := m.Called(ctx, bookingID)
	creds, _ := args.Get(0).(*domain.PaymentCredentials)
	return creds, args.Error(1)
}

type MockPaymentProvider struct {
	mock.Mock
}

func NewMockPaymentProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPaymentProvider {
	m := &MockPaymentProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPaymentProvider) CaptureOrder(ctx context.Context, token string) (*domain.CaptureResult, error) {
	args := m.Called(ctx, token)
	result, _ := args.Get(0).(*domain.CaptureResult)
	return result, args.Error(1)
}

type MockProviderFactory struct {
	mock.Mock
}

func NewMockProviderFactory(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProviderFactory {
	m := &MockProviderFactory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockProviderFactory) NewClient(creds domain.PaymentCredentials) application.PaymentProvider {
	args := m.Called(creds)
	provider, _ := args.Get(0).(application.PaymentProvider)
	return provider
}

type MockCaptureRecorder struct {
	mock.Mock
}

func NewMockCaptureRecorder(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCaptureRecorder {
	m := &MockCaptureRecorder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCaptureRecorder) RecordCapture(ctx context.Context, externalID, captureID string) error {
	args := m.Called(ctx, externalID, captureID)
	return args.Error(0)
}

var (
	_ application.BookingStore       = (*MockBookingStore)(nil)
	_ application.CredentialResolver = (*MockCredentialResolver)(nil)
	_ application.PaymentProvider    = (*MockPaymentProvider)(nil)
	_ application.ProviderFactory    = (*MockProviderFactory)(nil)
	_ application.CaptureRecorder    = (*MockCaptureRecorder)(nil)
)
