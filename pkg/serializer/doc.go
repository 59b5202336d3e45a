// Package serializer 把任意领域对象按声明式的序列化器定义转换为可编码为 JSON 的嵌套结构。
//
// 一个序列化器定义（Definition）由有序的字段声明组成：
// 属性（Attribute）直接输出取值，关联（Association）会为取值再解析一个序列化器并递归展开。
// 关联的展开深度受 maxDepth 约束，超过深度的关联键会被省略。
//
// 解析序列化器时，以调用方所在命名空间为起点，从最具体的命名空间逐级向上查找
// "{命名空间}::{类型名}Serializer"，都找不到时回退到通用的 ObjectSerializer。
// 解析结果按输入缓存在进程内，不做淘汰。
//
//	serializer.MustDefine("Api::V1::UserSerializer", func(b *serializer.Builder) {
//		b.Attributes("id", "full_name")
//		b.HasMany("posts")
//	})
//
//	out, err := serializer.Serialize(serializer.Name("Api::V1::UsersController"), user)
//	data, err := out.ToJSON()
package serializer
