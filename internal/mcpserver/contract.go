package mcpserver

// OutlineFormat documents the cache artifact layout and the heading link
// syntax understood by open_link.
const OutlineFormat = `# Outline Format

Every managed document gets one outline artifact in the cache directory.

## Artifact location

The artifact path is the document path with its extension dropped, every
"/" replaced by "__", and ".md" appended:

    notes/guide.mdx  ->  <cache dir>/notes__guide.md

## Artifact content

One line per heading, in source order:

    # Title
    ## Section
    ### Subsection

A heading is a line starting with one to six "#" characters followed by
whitespace. The text is trimmed. Fenced code is not special. A document
with no headings has an empty artifact.

## Link syntax

- ` + "`guide#Install`" + ` opens the first document whose path ends with
  "guide.<extension>" and places the cursor on the first heading line
  containing "Install". A trailing ".<extension>" on the name is ignored.
- ` + "`#Install`" + ` targets the active document.
- Any other link falls back to its visible text as the heading fragment
  within the active document.
- Fragments are percent-decoded ("Install%20Steps" -> "Install Steps").
`
