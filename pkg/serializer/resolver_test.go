package serializer

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
)

type ResolverSuite struct {
	suite.Suite

	resolver *Resolver
}

func (s *ResolverSuite) SetupTest() {
	s.resolver = newTestResolver()
	for _, name := range []string{
		"Api::V1::Chat::UserSerializer",
		"Api::V1::Chat::DetailedSerializer",
		"Api::V1::Chat::DetailedUserSerializer",
		"Api::V1::Admin::Internal::Chat::UserSerializer",
		"Chat::UserSerializer",
		"Chat::DetailedUserSerializer",
		"Public::Chat::UserSerializer",
		"External::ProviderA::Chat::UserSerializer",
	} {
		mustDefine(s.T(), s.resolver, name, func(b *Builder) {
			b.Attribute("id")
		})
	}
}

func (s *ResolverSuite) lookup(opts ...Option) string {
	def, err := s.resolver.LookupStrict(usersController, chatUser{ID: 1}, opts...)
	s.Require().NoError(err)
	return def.Name()
}

func (s *ResolverSuite) TestMostSpecificWins() {
	s.Equal("Api::V1::Chat::UserSerializer", s.lookup())
}

func (s *ResolverSuite) TestVariant() {
	s.Equal("Api::V1::Chat::DetailedSerializer", s.lookup(WithVariant("detailed")))
	s.Equal("Api::V1::Chat::DetailedSerializer", s.lookup(WithVariant(Name("Detailed"))))
}

func (s *ResolverSuite) TestNamespaceOverride() {
	s.Equal("Public::Chat::UserSerializer", s.lookup(WithNamespace("::Public")))
	s.Equal("Chat::UserSerializer", s.lookup(WithNamespace("::Private")))
	s.Equal("Api::V1::Admin::Internal::Chat::UserSerializer", s.lookup(WithNamespace("Internal")))
	s.Equal("Api::V1::Chat::UserSerializer", s.lookup(WithNamespace("")))
}

func (s *ResolverSuite) TestSerializerNameOverride() {
	s.Equal("External::ProviderA::Chat::UserSerializer", s.lookup(WithSerializer("External::ProviderA::Chat::User")))
	s.Equal("Chat::DetailedUserSerializer", s.lookup(WithSerializer("::Chat::DetailedUser")))
	s.Equal("Api::V1::Chat::DetailedUserSerializer", s.lookup(WithSerializer("Chat::DetailedUser")))
	s.Equal("Api::V1::Chat::UserSerializer", s.lookup(WithSerializer("Chat::UserSerializer")))
}

func (s *ResolverSuite) TestConcreteDefinitionShortCircuits() {
	def, err := Build("Anywhere::CustomSerializer", func(b *Builder) {
		b.Attribute("name")
	})
	s.Require().NoError(err)

	for _, caller := range []Caller{usersController, Root, Name("Other::Controller")} {
		for _, object := range []any{chatUser{}, ghost{}, &Person{}, nil} {
			got, ok, err := s.resolver.Lookup(caller, object, WithSerializer(def), WithNamespace("::Public"))
			s.NoError(err)
			s.True(ok)
			s.Same(def, got)
		}
	}
	// 直接指定定义时不经过缓存
	s.Equal(0, s.resolver.CacheLen())
}

func (s *ResolverSuite) TestLookupNotFound() {
	def, ok, err := s.resolver.Lookup(usersController, ghost{})
	s.NoError(err)
	s.False(ok)
	s.Nil(def)

	def, ok, err = s.resolver.Lookup(usersController, nil)
	s.NoError(err)
	s.False(ok)
	s.Nil(def)
}

func (s *ResolverSuite) TestLookupStrictNotFound() {
	_, err := s.resolver.LookupStrict(usersController, ghost{})
	s.Require().Error(err)
	s.ErrorIs(err, merr.ErrSerializerNotFound)
	s.Equal(merr.Code(merr.ErrSerializerNotFound), merr.Code(err))

	var notFound *NotFoundError
	s.Require().True(errors.As(err, &notFound))
	s.Equal("Chat::Ghost", notFound.Object)
	s.Equal("Api::V1::Admin", notFound.Namespace)
	s.Equal("Chat::GhostSerializer", notFound.Target)
	s.Equal([]string{
		"Api::V1::Admin::Chat::GhostSerializer",
		"Api::V1::Chat::GhostSerializer",
		"Api::Chat::GhostSerializer",
		"Chat::GhostSerializer",
	}, notFound.Candidates)
	s.Equal("couldn't find serializer for Chat::Ghost in Api::V1::Admin, tried looking for: "+
		"Api::V1::Admin::Chat::GhostSerializer, Api::V1::Chat::GhostSerializer, "+
		"Api::Chat::GhostSerializer, Chat::GhostSerializer", err.Error())

	_, err = s.resolver.LookupStrict(Root, ghost{})
	s.Require().Error(err)
	s.Equal("couldn't find serializer for Chat::Ghost in the root namespace, tried looking for: Chat::GhostSerializer", err.Error())
}

func (s *ResolverSuite) TestInvalidOverride() {
	for _, opt := range []Option{
		WithNamespace(42),
		WithSerializer(struct{}{}),
		WithVariant([]string{"Detailed"}),
	} {
		_, _, err := s.resolver.Lookup(usersController, chatUser{}, opt)
		s.ErrorIs(err, merr.ErrSerializerInvalidOverride)
		s.Equal(merr.InputError, merr.GetErrorType(err))

		_, err = s.resolver.LookupStrict(usersController, chatUser{}, opt)
		s.ErrorIs(err, merr.ErrSerializerInvalidOverride)

		_, err = s.resolver.Serialize(usersController, chatUser{}, opt)
		s.ErrorIs(err, merr.ErrSerializerInvalidOverride)

		_, err = s.resolver.SerializeAll(usersController, []chatUser{{}}, opt)
		s.ErrorIs(err, merr.ErrSerializerInvalidOverride)
	}
}

func (s *ResolverSuite) TestCache() {
	s.lookup()
	s.lookup()
	s.Equal(1, s.resolver.CacheLen())

	s.lookup(WithVariant("detailed"))
	s.Equal(2, s.resolver.CacheLen())

	// 找不到的结果同样会被缓存
	_, ok, err := s.resolver.Lookup(usersController, ghost{})
	s.NoError(err)
	s.False(ok)
	s.Equal(3, s.resolver.CacheLen())
}

func (s *ResolverSuite) TestRegisterInvalidatesCache() {
	_, ok, err := s.resolver.Lookup(usersController, ghost{})
	s.NoError(err)
	s.False(ok)

	generation := s.resolver.Registry().Generation()
	mustDefine(s.T(), s.resolver, "Api::Chat::GhostSerializer", nil)
	s.Equal(generation+1, s.resolver.Registry().Generation())

	def, ok, err := s.resolver.Lookup(usersController, ghost{})
	s.NoError(err)
	s.True(ok)
	s.Equal("Api::Chat::GhostSerializer", def.Name())
}

func (s *ResolverSuite) TestConcurrentLookup() {
	const n = 64
	var (
		wg   sync.WaitGroup
		defs = make([]*Definition, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			def, err := s.resolver.LookupStrict(usersController, chatUser{ID: i})
			s.NoError(err)
			defs[i] = def
		}(i)
	}
	wg.Wait()

	for _, def := range defs {
		s.Same(defs[0], def)
	}
	s.Equal(1, s.resolver.CacheLen())
}

func (s *ResolverSuite) TestMaxDepthOption() {
	out, err := s.resolver.Serialize(Root, &Person{})
	s.Require().NoError(err)
	s.Equal(DefaultMaxDepth(), out.(*Instance).MaxDepth())

	out, err = s.resolver.Serialize(Root, &Person{}, WithMaxDepth(3))
	s.Require().NoError(err)
	s.Equal(3, out.(*Instance).MaxDepth())

	out, err = s.resolver.Serialize(Root, &Person{}, WithMaxDepth(-1))
	s.Require().NoError(err)
	s.Equal(0, out.(*Instance).MaxDepth())

	out, err = s.resolver.Serialize(Root, &Person{}, WithMaxDepth(MaxDepthLimit()+10))
	s.Require().NoError(err)
	s.Equal(MaxDepthLimit(), out.(*Instance).MaxDepth())
}

func TestResolver(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}
