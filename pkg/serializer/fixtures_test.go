package serializer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type chatUser struct {
	ID   int
	Name string
}

func (chatUser) SerializerTypeName() string { return "Chat::User" }

type ghost struct{}

func (ghost) SerializerTypeName() string { return "Chat::Ghost" }

type Person struct {
	ID    int    `json:"id"`
	First string `json:"first"`
	Last  string `json:"last"`
}

type Top struct {
	ID    int
	First *Middle
}

type Middle struct {
	ID     int
	Second *Leaf
}

type Leaf struct {
	ID int
}

type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Posts     []*Post
}

func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

type Post struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Published bool   `json:"published"`
	Author    *User
}

const usersController = Name("Api::V1::Admin::UsersController")

func newTestResolver() *Resolver {
	return NewResolver(NewRegistry())
}

func mustDefine(t *testing.T, r *Resolver, name string, build func(b *Builder)) *Definition {
	def, err := r.Registry().Define(name, build)
	require.NoError(t, err)
	return def
}

func mustJSON(t *testing.T, s Serialized) string {
	data, err := s.ToJSON()
	require.NoError(t, err)
	return string(data)
}

// newBlog 构造 User 与 Post 互相引用的对象图。
func newBlog() *User {
	user := &User{ID: 1, FirstName: "John", LastName: "Doe"}
	user.Posts = []*Post{
		{ID: 10, Title: "Hello", Published: true, Author: user},
		{ID: 11, Title: "Draft", Published: false, Author: user},
	}
	return user
}
