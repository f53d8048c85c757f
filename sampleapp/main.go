package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/anirudhraja/iltags"
	"github.com/anirudhraja/iltags/catalog"
	"github.com/anirudhraja/iltags/tags"
	"github.com/anirudhraja/iltags/tags/prototag"
	"github.com/anirudhraja/iltags/tags/standard"
	"github.com/anirudhraja/iltags/wire"
)

const (
	userTagID = 65536
	postTagID = 65537
)

func main() {
	cat, err := catalog.Load("testdata/ids.proto")
	if err != nil {
		log.Fatalf("Failed to load ids.proto: %v", err)
	}

	// Users and posts are dictionaries under their own identifiers.
	p, err := iltags.New(
		iltags.WithCatalog(cat),
		iltags.WithCreator(userTagID, "", standard.DictCreator),
		iltags.WithCreator(postTagID, "", standard.DictCreator),
	)
	if err != nil {
		log.Fatalf("Failed to create ILTags: %v", err)
	}

	fmt.Println("ILTags Sample App")
	fmt.Println(strings.Repeat("=", 70))

	user := createUser()
	data, err := p.Encode(user)
	if err != nil {
		log.Fatalf("Failed to encode: %v", err)
	}
	fmt.Printf("Encoded user: %d bytes\n%x\n", len(data), data)

	decoded, err := p.Decode(data)
	if err != nil {
		log.Fatalf("Failed to decode: %v", err)
	}
	printTree(p, decoded)
	fmt.Printf("Round trip equal: %v\n", p.Equal(user, decoded))

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("Forward compatibility: decoding without the custom creators")
	fmt.Println(strings.Repeat("=", 70))

	plain, err := iltags.New(iltags.WithCatalog(cat))
	if err != nil {
		log.Fatalf("Failed to create ILTags: %v", err)
	}
	opaque, err := plain.Decode(data)
	if err != nil {
		log.Fatalf("Failed to decode: %v", err)
	}
	fmt.Printf("Decoded as %T, %d payload bytes kept\n", opaque, opaque.ValueSize())
	again, err := plain.Encode(opaque)
	if err != nil {
		log.Fatalf("Failed to re-encode: %v", err)
	}
	fmt.Printf("Re-encoded identically: %v\n", string(again) == string(data))

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("Scanning a stream of posts")
	fmt.Println(strings.Repeat("=", 70))

	stream, err := p.EncodeAll(createPost(1, "hello"), createPost(2, "again"), standard.NewNullTag())
	if err != nil {
		log.Fatalf("Failed to encode posts: %v", err)
	}
	s := tags.NewScanner(wire.NewBufferReader(stream), 0)
	for {
		entry, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to scan: %v", err)
		}
		fmt.Printf("offset %3d  %-12s %3d bytes\n", entry.Offset, p.Name(entry.ID), entry.Size())
	}
}

func createUser() tags.Tag {
	user := standard.NewDictTagID(userTagID)
	user.Put("id", standard.NewILIntTag(1))
	user.Put("name", standard.NewStringTag("John Doe"))
	user.Put("active", standard.NewBoolTag(true))
	user.Put("joined", prototag.NewTimestampTag(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)))
	user.Put("metadata", standard.NewStringDictTag(map[string]string{
		"theme":    "dark",
		"language": "en",
	}))
	user.Put("posts", standard.NewTagArrayTag(
		createPost(1, "Hello ILTags"),
		createPost(2, "Tags all the way down"),
	))
	return user
}

func createPost(id uint64, title string) tags.Tag {
	post := standard.NewDictTagID(postTagID)
	post.Put("id", standard.NewILIntTag(id))
	post.Put("title", standard.NewStringTag(title))
	post.Put("version", standard.NewVersionTag(1, 0, 0, int32(id)))
	return post
}

func printTree(p *iltags.ILTags, t tags.Tag) {
	out, err := json.MarshalIndent(p.Tree(t), "", "  ")
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	fmt.Println(string(out))
}
