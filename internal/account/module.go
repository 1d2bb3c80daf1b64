// Package account wires the credential and OTP verification workflow: the
// stores behind it, the transport that delivers codes and its HTTP surface.
package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/bazaar/internal/account/inbound"
	"github.com/shandysiswandi/bazaar/internal/account/outbound"
	"github.com/shandysiswandi/bazaar/internal/account/outbound/cache"
	"github.com/shandysiswandi/bazaar/internal/account/outbound/db"
	"github.com/shandysiswandi/bazaar/internal/account/outbound/delivery"
	"github.com/shandysiswandi/bazaar/internal/account/outbound/memory"
	"github.com/shandysiswandi/bazaar/internal/account/usecase"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/config"
	"github.com/shandysiswandi/bazaar/internal/pkg/hash"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/jwt"
	"github.com/shandysiswandi/bazaar/internal/pkg/mail"
	"github.com/shandysiswandi/bazaar/internal/pkg/messaging"
	"github.com/shandysiswandi/bazaar/internal/pkg/otp"
	"github.com/shandysiswandi/bazaar/internal/pkg/router"
	"github.com/shandysiswandi/bazaar/internal/pkg/uid"
	"github.com/shandysiswandi/bazaar/internal/pkg/validator"
)

// Store, challenge store and delivery choices read from modules.account.*.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	ChallengeStorePrimary = "primary"
	ChallengeStoreRedis   = "redis"

	DeliveryMail   = "mail"
	DeliveryBroker = "broker"
)

var (
	ErrUnknownStore    = errors.New("account: unknown store")
	ErrUnknownDelivery = errors.New("account: unknown delivery")
	ErrMissingConn     = errors.New("account: connection required by the selected store")
)

// Dependency lists what the module needs. DBConn, CacheConn, Mail and
// Messaging are only required by the store and delivery that use them.
type Dependency struct {
	DBConn     *pgxpool.Pool
	CacheConn  *redis.Client
	Mail       mail.Mail
	Messaging  messaging.Messaging
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
	Password   hash.Hash                  `validate:"required"`
	CodeHash   hash.Hash                  `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	store, err := newStore(dep)
	if err != nil {
		return err
	}

	transport, err := newTransport(dep)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Store:      store,
		Transport:  transport,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Password:   dep.Password,
		CodeHash:   dep.CodeHash,
		Generator:  otp.NewNumeric(6),
		UID:        dep.UID,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}

func newStore(dep Dependency) (usecase.Store, error) {
	var primary interface {
		outbound.AccountStore
		outbound.ChallengeStore
	}

	switch kind := strings.ToLower(dep.Config.GetString("modules.account.store")); kind {
	case StorePostgres, "":
		if dep.DBConn == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConn, StorePostgres)
		}
		primary = db.NewDB(dep.DBConn, dep.Clock, dep.Instrument)
	case StoreMemory:
		primary = memory.New(dep.Clock)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, kind)
	}

	switch kind := strings.ToLower(dep.Config.GetString("modules.account.challenge_store")); kind {
	case ChallengeStorePrimary, "":
		return primary, nil
	case ChallengeStoreRedis:
		if dep.CacheConn == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConn, ChallengeStoreRedis)
		}
		return outbound.NewComposite(primary, cache.NewCache(dep.CacheConn, dep.Clock, dep.Instrument)), nil
	default:
		return nil, fmt.Errorf("%w: challenge %s", ErrUnknownStore, kind)
	}
}

func newTransport(dep Dependency) (usecase.Transport, error) {
	switch kind := strings.ToLower(dep.Config.GetString("modules.account.delivery")); kind {
	case DeliveryMail, "":
		if dep.Mail == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConn, DeliveryMail)
		}
		return delivery.NewMail(dep.Mail, dep.Clock, dep.Instrument), nil
	case DeliveryBroker:
		if dep.Messaging == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConn, DeliveryBroker)
		}
		return delivery.NewBroker(dep.Messaging, dep.Config.GetString("modules.account.topic.otp_issued"), dep.Instrument), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDelivery, kind)
	}
}
