package serializer

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
)

func TestComputedAttribute(t *testing.T) {
	r := newTestResolver()
	mustDefine(t, r, "PersonSerializer", func(b *Builder) {
		b.Attribute("id")
		b.Attribute("fullName", Compute(func(s *Instance) any {
			p := s.Object().(*Person)
			return p.First + " " + p.Last
		}))
	})

	out, err := r.Serialize(Root, &Person{ID: 1, First: "John", Last: "Doe"})
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"fullName":"John Doe"}`, mustJSON(t, out))
}

func TestAssociationDepth(t *testing.T) {
	r := newTestResolver()
	mustDefine(t, r, "TopSerializer", func(b *Builder) {
		b.Attribute("id").Association("first")
	})
	mustDefine(t, r, "MiddleSerializer", func(b *Builder) {
		b.Attribute("id").Association("second")
	})
	mustDefine(t, r, "LeafSerializer", func(b *Builder) {
		b.Attribute("id")
	})
	top := &Top{ID: 1, First: &Middle{ID: 2, Second: &Leaf{ID: 3}}}

	out, err := r.Serialize(Root, top, WithMaxDepth(1))
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"first":{"id":2}}`, mustJSON(t, out))

	out, err = r.Serialize(Root, top, WithMaxDepth(2))
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"first":{"id":2,"second":{"id":3}}}`, mustJSON(t, out))

	out, err = r.Serialize(Root, top, WithMaxDepth(0))
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, mustJSON(t, out))

	// 关联为 nil 时输出 null
	out, err = r.Serialize(Root, &Top{ID: 4}, WithMaxDepth(2))
	require.NoError(t, err)
	assert.Equal(t, `{"id":4,"first":null}`, mustJSON(t, out))
}

func TestConcreteSerializerIgnoresCallerAndType(t *testing.T) {
	r := newTestResolver()
	mustDefine(t, r, "Api::PersonSerializer", func(b *Builder) {
		b.Attribute("id")
	})
	custom, err := Build("NameOnlySerializer", func(b *Builder) {
		b.Attribute("name", Compute(func(s *Instance) any { return "fixed" }))
	})
	require.NoError(t, err)

	for _, caller := range []Caller{Root, Name("Api::PeopleController")} {
		for _, object := range []any{&Person{ID: 1}, &Leaf{ID: 2}, chatUser{}} {
			out, err := r.Serialize(caller, object, WithSerializer(custom))
			require.NoError(t, err)
			assert.Same(t, custom, out.(*Instance).Definition())
			assert.Equal(t, `{"name":"fixed"}`, mustJSON(t, out))
		}
	}
}

type BlogSuite struct {
	suite.Suite

	resolver *Resolver
	user     *User
}

func (s *BlogSuite) SetupTest() {
	s.resolver = newTestResolver()
	s.user = newBlog()

	mustDefine(s.T(), s.resolver, "Api::V1::UserSerializer", func(b *Builder) {
		b.Attributes("id", "full_name")
		b.HasMany("posts")
	})
	post := mustDefine(s.T(), s.resolver, "Api::V1::PostSerializer", func(b *Builder) {
		b.Attribute("id")
		b.Attribute("title", Unless(func(s *Instance) bool { return !s.Object().(*Post).Published }))
		b.Attribute("published", IfPredicate("first_user"))
		b.BelongsTo("author")
		b.Predicate("first_user", func(s *Instance) bool {
			return s.Object().(*Post).Author.ID == 1
		})
	})
	s.resolver.Registry().MustExtend(post, "Api::V1::DetailedPostSerializer", func(b *Builder) {
		b.Attribute("word_count", Compute(func(s *Instance) any { return len(s.Object().(*Post).Title) }))
	})
	mustDefine(s.T(), s.resolver, "PostSerializer", func(b *Builder) {
		b.Attribute("id")
	})
}

func (s *BlogSuite) TestNestedAssociationsResolveInDefinerNamespace() {
	out, err := s.resolver.Serialize(Name("Api::V1::UsersController"), s.user)
	s.Require().NoError(err)
	s.JSONEq(`{
		"id": 1,
		"full_name": "John Doe",
		"posts": [
			{"id": 10, "title": "Hello", "published": true},
			{"id": 11, "published": false}
		]
	}`, mustJSON(s.T(), out))
}

func (s *BlogSuite) TestKeyOrder() {
	out, err := s.resolver.Serialize(Name("Api::V1::UsersController"), s.user)
	s.Require().NoError(err)
	v, err := out.AsJSON()
	s.Require().NoError(err)
	s.Equal([]string{"id", "full_name", "posts"}, v.(*Map).Keys())
}

func (s *BlogSuite) TestCyclicGraphTerminates() {
	out, err := s.resolver.Serialize(Name("Api::V1::UsersController"), s.user, WithMaxDepth(5))
	s.Require().NoError(err)
	v, err := out.AsJSON()
	s.Require().NoError(err)

	depth := 0
	for current := v.(*Map); current != nil; depth++ {
		posts, ok := current.Get("posts")
		if !ok {
			break
		}
		post := posts.([]any)[0].(*Map)
		author, ok := post.Get("author")
		if !ok {
			break
		}
		current = author.(*Map)
	}
	// 每经过一次 posts -> author 消耗两层深度
	s.Equal(2, depth)
}

func (s *BlogSuite) TestNamespaceFallsBackToRoot() {
	out, err := s.resolver.Serialize(Name("Web::PostsController"), s.user.Posts[0])
	s.Require().NoError(err)
	s.Equal(`{"id":10}`, mustJSON(s.T(), out))
}

func (s *BlogSuite) TestAbsoluteNamespace() {
	out, err := s.resolver.Serialize(Name("Web::PostsController"), s.user.Posts[0], WithNamespace("::Api::V1"))
	s.Require().NoError(err)
	s.Equal(`{"id":10,"title":"Hello","published":true,"author":{"id":1,"full_name":"John Doe"}}`, mustJSON(s.T(), out))
}

func (s *BlogSuite) TestVariant() {
	out, err := s.resolver.Serialize(Name("Api::V1::PostsController"), s.user.Posts[0], WithVariant("detailed_post"), WithMaxDepth(0))
	s.Require().NoError(err)
	s.Equal(`{"id":10,"title":"Hello","published":true,"word_count":5}`, mustJSON(s.T(), out))
}

func (s *BlogSuite) TestAssociationOverride() {
	mustDefine(s.T(), s.resolver, "Admin::UserSerializer", func(b *Builder) {
		b.Attributes("id", "first_name", "last_name")
		b.Association("posts", AsVariant("detailed_post"), InNamespace("::Api::V1"))
	})

	out, err := s.resolver.Serialize(Name("Admin::UsersController"), s.user)
	s.Require().NoError(err)
	s.JSONEq(`{
		"id": 1,
		"first_name": "John",
		"last_name": "Doe",
		"posts": [
			{"id": 10, "title": "Hello", "published": true, "word_count": 5},
			{"id": 11, "published": false, "word_count": 5}
		]
	}`, mustJSON(s.T(), out))
}

func (s *BlogSuite) TestIdempotentAndRoundTrip() {
	out, err := s.resolver.Serialize(Name("Api::V1::UsersController"), s.user, WithMaxDepth(3))
	s.Require().NoError(err)

	first := mustJSON(s.T(), out)
	s.Equal(first, mustJSON(s.T(), out))

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal([]byte(first), &decoded))
	encoded, err := json.Marshal(decoded)
	s.Require().NoError(err)
	s.JSONEq(first, string(encoded))

	v, err := out.AsJSON()
	s.Require().NoError(err)
	plain, err := json.Marshal(v.(*Map).ToMap())
	s.Require().NoError(err)
	s.JSONEq(first, string(plain))
}

func TestBlog(t *testing.T) {
	suite.Run(t, new(BlogSuite))
}

func TestConditions(t *testing.T) {
	r := newTestResolver()
	calls := 0
	def, err := Build("ConditionSerializer", func(b *Builder) {
		b.Attribute("counted",
			Value(func(s *Instance) (any, error) {
				calls++
				return "x", nil
			}),
			IfValue(func(s *Instance, v any) bool { return v == "x" }),
			UnlessValue(func(s *Instance, v any) bool { return v == "y" }))
		b.Attribute("hidden", Unless(func(s *Instance) bool { return true }))
		b.Attribute("shown", If(func(s *Instance) bool { return true }), Compute(func(s *Instance) any { return nil }))
		b.Attribute("skipped", If(func(s *Instance) bool { return false }))
		b.Attribute("empty", IfValue(func(s *Instance, v any) bool { return v != "" }))
		b.Attribute("guarded", UnlessPredicate("always"))
		b.Predicate("always", func(s *Instance) bool { return true })
	})
	require.NoError(t, err)

	out, err := r.NewInstance(def, map[string]string{"empty": ""}, 0, 1).ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"counted":"x","shown":null}`, string(out))
	assert.Equal(t, 1, calls)
}

func TestProduceError(t *testing.T) {
	r := newTestResolver()
	boom := errors.New("boom")
	def, err := Build("BrokenSerializer", func(b *Builder) {
		b.Attribute("broken", Value(func(s *Instance) (any, error) { return nil, boom }))
	})
	require.NoError(t, err)

	_, err = r.NewInstance(def, &Person{}, 0, 1).AsJSON()
	assert.ErrorIs(t, err, merr.ErrFieldProduceFailed)
	assert.ErrorIs(t, err, boom)

	def, err = Build("MissingSerializer", func(b *Builder) {
		b.Attribute("nickname")
	})
	require.NoError(t, err)
	_, err = r.NewInstance(def, &Person{}, 0, 1).AsJSON()
	assert.ErrorIs(t, err, merr.ErrFieldProduceFailed)
	assert.ErrorIs(t, err, merr.ErrFieldNotFound)
}

func TestProducePanic(t *testing.T) {
	r := newTestResolver()
	mustDefine(t, r, "PersonSerializer", func(b *Builder) {
		b.Attribute("id", Compute(func(s *Instance) any { panic("boom") }))
	})

	s, err := r.Serialize(Root, &Person{ID: 1})
	require.NoError(t, err)
	_, err = s.AsJSON()
	assert.ErrorIs(t, err, merr.ErrFieldProduceFailed)
	assert.ErrorContains(t, err, "boom")

	_, err = r.SerializeAll(Root, []*Person{{ID: 1}, {ID: 2}})
	assert.ErrorIs(t, err, merr.ErrFieldProduceFailed)
}

func TestAssociationConditionValue(t *testing.T) {
	r := newTestResolver()
	mustDefine(t, r, "UserSerializer", func(b *Builder) {
		b.Attribute("id")
	})

	var seen []any
	mustDefine(t, r, "PostSerializer", func(b *Builder) {
		b.Attribute("id")
		b.Association("author", IfValue(func(s *Instance, v any) bool {
			seen = append(seen, v)
			m, ok := v.(*Map)
			return ok && m.Has("id")
		}))
	})

	s, err := r.Serialize(Root, &Post{ID: 10, Author: &User{ID: 1}})
	require.NoError(t, err)
	assert.Equal(t, `{"id":10,"author":{"id":1}}`, mustJSON(t, s))
	require.Len(t, seen, 1)
	author, ok := seen[0].(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, author.Keys())

	// 超出深度时不计算条件
	seen = nil
	s, err = r.Serialize(Root, &Post{ID: 10, Author: &User{ID: 1}}, WithMaxDepth(0))
	require.NoError(t, err)
	assert.Equal(t, `{"id":10}`, mustJSON(t, s))
	assert.Empty(t, seen)
}

func TestInstanceAccessors(t *testing.T) {
	r := newTestResolver()
	def := mustDefine(t, r, "Api::PersonSerializer", nil)
	p := &Person{ID: 7}

	s := r.NewInstance(def, p, 2, 3)
	assert.Equal(t, "Api::PersonSerializer", s.QualifiedName())
	assert.Same(t, def, s.Definition())
	assert.Same(t, p, s.Object())
	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, 3, s.MaxDepth())

	v, err := s.Get("id")
	assert.NoError(t, err)
	assert.Equal(t, 7, v)

	var nilInstance *Instance
	assert.Equal(t, "", nilInstance.QualifiedName())

	data, err := s.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
