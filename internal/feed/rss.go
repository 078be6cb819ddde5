package feed

import (
	"encoding/xml"
	"strconv"

	"podhost/internal/models"
)

const (
	xmlnsAtom   = "http://www.w3.org/2005/Atom"
	xmlnsItunes = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	xmlnsSy     = "http://purl.org/rss/1.0/modules/syndication/"
	xmlnsDC     = "http://purl.org/dc/elements/1.1/"

	// The feed body is a compatibility surface for podcast clients, so
	// the declaration is emitted verbatim rather than via xml.Header.
	xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

	// RFC 2822 date format used by RSS pubDate and lastBuildDate.
	rfc2822 = "Mon, 02 Jan 2006 15:04:05 -0700"
)

// Config holds the feed-wide settings read from the environment. They are
// passed in explicitly; the renderer reads no globals.
type Config struct {
	Language string
	TTL      int
}

// Identity supplies the canonical public path of a feed. A podcast's
// primary feed is addressed by slug, a custom feed by its opaque
// reference token; the rendered episode set is identical either way.
type Identity interface {
	FeedPath() string
}

// SlugIdentity addresses the primary feed of the podcast with this slug.
type SlugIdentity string

func (s SlugIdentity) FeedPath() string { return "/" + string(s) + "/rss" }

// RefIdentity addresses a custom feed by its reference token.
type RefIdentity string

func (r RefIdentity) FeedPath() string { return "/custom/" + string(r) }

// MediaResolver supplies everything the renderer needs that would require
// I/O: absolute URLs, image fallback resolution, audio sizes and types.
// Implemented by media.Resolver.
type MediaResolver interface {
	AbsURL(path string) string
	FileURL(stored string) string
	ImageURL(stored, public string) string
	AudioSize(stored string) int64
	AudioType(stored string) string
}

type rssDoc struct {
	XMLName     xml.Name `xml:"rss"`
	Version     string   `xml:"version,attr"`
	XmlnsAtom   string   `xml:"xmlns:atom,attr"`
	XmlnsItunes string   `xml:"xmlns:itunes,attr"`
	XmlnsSy     string   `xml:"xmlns:sy,attr"`
	Channel     channel  `xml:"channel"`
}

// Element order below is a wire format podcast clients depend on. Do not
// reorder fields.
type channel struct {
	Title           string      `xml:"title"`
	Link            string      `xml:"link"`
	Description     string      `xml:"description"`
	AtomLink        atomLink    `xml:"atom:link"`
	Language        string      `xml:"language"`
	Copyright       string      `xml:"copyright"`
	LastBuildDate   string      `xml:"lastBuildDate,omitempty"`
	TTL             int         `xml:"ttl"`
	UpdatePeriod    string      `xml:"sy:updatePeriod"`
	UpdateFrequency string      `xml:"sy:updateFrequency"`
	ItunesAuthor    string      `xml:"itunes:author"`
	ItunesSubtitle  string      `xml:"itunes:subtitle"`
	ItunesSummary   string      `xml:"itunes:summary"`
	ItunesKeywords  string      `xml:"itunes:keywords"`
	ItunesExplicit  string      `xml:"itunes:explicit"`
	ItunesImage     itunesImage `xml:"itunes:image"`
	Image           feedImage   `xml:"image"`
	Items           []item      `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

// feedImage is the legacy RSS image block kept for feed readers that
// ignore the itunes namespace.
type feedImage struct {
	Title string `xml:"title"`
	URL   string `xml:"url"`
	Link  string `xml:"link"`
}

type dcCreator struct {
	Xmlns string `xml:"xmlns:dc,attr"`
	Value string `xml:",chardata"`
}

type enclosure struct {
	Length string `xml:"length,attr"`
	Type   string `xml:"type,attr"`
	URL    string `xml:"url,attr"`
}

type item struct {
	Title         string      `xml:"title"`
	Link          string      `xml:"link"`
	Description   string      `xml:"description"`
	Creator       dcCreator   `xml:"dc:creator"`
	PubDate       string      `xml:"pubDate"`
	GUID          string      `xml:"guid"`
	Enclosure     enclosure   `xml:"enclosure"`
	ItunesAuthor  string      `xml:"itunes:author"`
	ItunesSummary string      `xml:"itunes:summary"`
	ItunesImage   itunesImage `xml:"itunes:image"`
}

// Generate renders the podcast's feed document. episodes must already be
// ordered newest-first; entries without a published timestamp are skipped.
// The function performs no I/O of its own and either returns a complete
// document or nothing.
func Generate(p models.Podcast, episodes []models.Episode, id Identity, res MediaResolver, cfg Config) ([]byte, error) {
	feedURL := res.AbsURL(id.FeedPath())
	imageURL := res.ImageURL(p.Image, p.PublicImage)

	ch := channel{
		Title:           p.Title,
		Link:            feedURL,
		Description:     p.Description,
		AtomLink:        atomLink{Href: feedURL, Rel: "self"},
		Language:        cfg.Language,
		Copyright:       p.Copyright,
		TTL:             cfg.TTL,
		UpdatePeriod:    "hourly",
		UpdateFrequency: "1",
		ItunesAuthor:    p.Author,
		ItunesSubtitle:  p.Subtitle,
		ItunesSummary:   p.Description,
		ItunesKeywords:  p.Keywords,
		ItunesExplicit:  "no",
		ItunesImage:     itunesImage{Href: imageURL},
		Image:           feedImage{Title: p.Title, URL: imageURL, Link: feedURL},
	}

	for _, e := range episodes {
		if e.Published == nil {
			continue
		}
		if ch.LastBuildDate == "" {
			ch.LastBuildDate = e.Published.Format(rfc2822)
		}

		author := e.Author
		if author == "" {
			author = p.Author
		}
		audioURL := res.FileURL(e.Audio)

		ch.Items = append(ch.Items, item{
			Title:       e.Title,
			Link:        audioURL,
			Description: e.Description,
			Creator:     dcCreator{Xmlns: xmlnsDC, Value: author},
			PubDate:     e.Published.Format(rfc2822),
			GUID:        strconv.FormatInt(e.ID, 10),
			Enclosure: enclosure{
				Length: strconv.FormatInt(res.AudioSize(e.Audio), 10),
				Type:   res.AudioType(e.Audio),
				URL:    audioURL,
			},
			ItunesAuthor:  author,
			ItunesSummary: e.Description,
			ItunesImage:   itunesImage{Href: res.ImageURL(e.Image, e.PublicImage)},
		})
	}

	doc := rssDoc{
		Version:     "2.0",
		XmlnsAtom:   xmlnsAtom,
		XmlnsItunes: xmlnsItunes,
		XmlnsSy:     xmlnsSy,
		Channel:     ch,
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlDeclaration), body...), nil
}
